package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SelectionStore remembers the last endpoint the selector settled on so the
// next startup can try it first.
type SelectionStore struct {
	db      *bun.DB
	repo    repository.Repository[*endpointSelectionRecord]
	appName string
}

func NewSelectionStore(db *bun.DB, appName string) (*SelectionStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return nil, fmt.Errorf("sqlstore: app name is required")
	}
	repo := repository.NewRepository[*endpointSelectionRecord](db, endpointSelectionHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid endpoint selection repository wiring: %w", err)
		}
	}
	return &SelectionStore{
		db:      db,
		repo:    repo,
		appName: appName,
	}, nil
}

func (s *SelectionStore) Get(ctx context.Context) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, fmt.Errorf("sqlstore: selection store is not configured")
	}
	record := &endpointSelectionRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.app_name = ?", s.appName).
		OrderExpr("?TableAlias.updated_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return record.URL, true, nil
}

func (s *SelectionStore) Set(ctx context.Context, url string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: selection store is not configured")
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("sqlstore: endpoint url is required")
	}
	now := time.Now().UTC()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := findSelectionTx(ctx, tx, s.appName)
		if err != nil {
			return err
		}
		if record == nil {
			record = &endpointSelectionRecord{
				ID:        uuid.NewString(),
				AppName:   s.appName,
				URL:       url,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, insertErr := tx.NewInsert().Model(record).Exec(ctx); insertErr != nil {
				if !isUniqueViolation(insertErr) {
					return insertErr
				}
				record, err = findSelectionTx(ctx, tx, s.appName)
				if err != nil {
					return err
				}
				if record == nil {
					return insertErr
				}
			} else {
				return nil
			}
		}

		record.URL = url
		record.UpdatedAt = now
		_, updateErr := tx.NewUpdate().Model(record).Where("id = ?", record.ID).Exec(ctx)
		return updateErr
	})
}

func findSelectionTx(ctx context.Context, tx bun.Tx, appName string) (*endpointSelectionRecord, error) {
	record := &endpointSelectionRecord{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.app_name = ?", appName).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}
