package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type tokenRecord struct {
	bun.BaseModel `bun:"table:client_tokens,alias:ct"`

	ID        string    `bun:"id,pk"`
	AppName   string    `bun:"app_name,notnull"`
	Token     string    `bun:"token,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type profileRecord struct {
	bun.BaseModel `bun:"table:client_profiles,alias:cp"`

	ID        string         `bun:"id,pk"`
	AppName   string         `bun:"app_name,notnull"`
	Username  string         `bun:"username,notnull"`
	Fields    map[string]any `bun:"fields,type:jsonb,notnull"`
	CreatedAt time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time      `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type endpointSelectionRecord struct {
	bun.BaseModel `bun:"table:client_endpoint_selections,alias:ces"`

	ID        string    `bun:"id,pk"`
	AppName   string    `bun:"app_name,notnull"`
	URL       string    `bun:"url,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
