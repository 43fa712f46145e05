package sqlstore

import (
	"fmt"
	"strings"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"

	"github.com/Awatif2003/marinesafe/core"
)

// RepositoryFactory builds the persisted client stores on top of a shared
// bun database, scoped to a single application name.
type RepositoryFactory struct {
	db      *bun.DB
	appName string

	tokenStore     *TokenStore
	profileStore   *ProfileStore
	selectionStore *SelectionStore
}

func NewRepositoryFactory(appName string) *RepositoryFactory {
	return &RepositoryFactory{appName: strings.TrimSpace(appName)}
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client, appName string) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(appName)
	if _, err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB, appName string) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(appName)
	if _, err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) (core.StoreProvider, error) {
	if f == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.appName == "" {
		return nil, fmt.Errorf("sqlstore: app name is required")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	if f.tokenStore != nil && f.profileStore != nil && f.selectionStore != nil {
		return f, nil
	}
	if err := f.initStores(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *RepositoryFactory) TokenStore() core.TokenStore {
	if f == nil {
		return nil
	}
	return f.tokenStore
}

func (f *RepositoryFactory) ProfileStore() core.ProfileStore {
	if f == nil {
		return nil
	}
	return f.profileStore
}

func (f *RepositoryFactory) SelectionStore() core.SelectionStore {
	if f == nil {
		return nil
	}
	return f.selectionStore
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func (f *RepositoryFactory) initStores() error {
	tokenStore, err := NewTokenStore(f.db, f.appName)
	if err != nil {
		return err
	}
	f.tokenStore = tokenStore
	profileStore, err := NewProfileStore(f.db, f.appName)
	if err != nil {
		return err
	}
	f.profileStore = profileStore
	selectionStore, err := NewSelectionStore(f.db, f.appName)
	if err != nil {
		return err
	}
	f.selectionStore = selectionStore
	return nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
