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

	"github.com/Awatif2003/marinesafe/core"
)

type ProfileStore struct {
	db      *bun.DB
	repo    repository.Repository[*profileRecord]
	appName string
}

func NewProfileStore(db *bun.DB, appName string) (*ProfileStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return nil, fmt.Errorf("sqlstore: app name is required")
	}
	repo := repository.NewRepository[*profileRecord](db, profileHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid profile repository wiring: %w", err)
		}
	}
	return &ProfileStore{
		db:      db,
		repo:    repo,
		appName: appName,
	}, nil
}

func (s *ProfileStore) Get(ctx context.Context) (core.UserProfile, bool, error) {
	if s == nil || s.db == nil {
		return core.UserProfile{}, false, fmt.Errorf("sqlstore: profile store is not configured")
	}
	record := &profileRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.app_name = ?", s.appName).
		OrderExpr("?TableAlias.updated_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.UserProfile{}, false, nil
		}
		return core.UserProfile{}, false, err
	}
	return record.toDomain(), true, nil
}

func (s *ProfileStore) Set(ctx context.Context, profile core.UserProfile) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: profile store is not configured")
	}
	username := strings.TrimSpace(profile.Username)
	if username == "" {
		return fmt.Errorf("sqlstore: profile username is required")
	}
	fields := copyAnyMap(profile.Fields)
	now := time.Now().UTC()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := findProfileTx(ctx, tx, s.appName)
		if err != nil {
			return err
		}
		if record == nil {
			record = &profileRecord{
				ID:        uuid.NewString(),
				AppName:   s.appName,
				Username:  username,
				Fields:    fields,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, insertErr := tx.NewInsert().Model(record).Exec(ctx); insertErr != nil {
				if !isUniqueViolation(insertErr) {
					return insertErr
				}
				record, err = findProfileTx(ctx, tx, s.appName)
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

		record.Username = username
		record.Fields = fields
		record.UpdatedAt = now
		_, updateErr := tx.NewUpdate().Model(record).Where("id = ?", record.ID).Exec(ctx)
		return updateErr
	})
}

func (s *ProfileStore) Remove(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: profile store is not configured")
	}
	_, err := s.db.NewDelete().
		Model((*profileRecord)(nil)).
		Where("app_name = ?", s.appName).
		Exec(ctx)
	return err
}

func (r *profileRecord) toDomain() core.UserProfile {
	return core.UserProfile{
		Username: r.Username,
		Fields:   copyAnyMap(r.Fields),
	}
}

func findProfileTx(ctx context.Context, tx bun.Tx, appName string) (*profileRecord, error) {
	record := &profileRecord{}
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

func copyAnyMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
