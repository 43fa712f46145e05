package sqlstore

import "github.com/Awatif2003/marinesafe/core"

var (
	_ core.TokenStore             = (*TokenStore)(nil)
	_ core.ProfileStore           = (*ProfileStore)(nil)
	_ core.SelectionStore         = (*SelectionStore)(nil)
	_ core.StoreProvider          = (*RepositoryFactory)(nil)
	_ core.RepositoryStoreFactory = (*RepositoryFactory)(nil)
)
