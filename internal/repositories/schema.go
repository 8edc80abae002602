package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/dnd-connect/internal/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id UUID PRIMARY KEY,
	username VARCHAR(50) NOT NULL UNIQUE,
	email VARCHAR(100) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	latitude DOUBLE PRECISION CHECK (latitude BETWEEN -90 AND 90),
	longitude DOUBLE PRECISION CHECK (longitude BETWEEN -180 AND 180),
	location VARCHAR(255) NOT NULL DEFAULT '',
	last_location_update TIMESTAMPTZ,
	profile_picture TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	experience VARCHAR(50) NOT NULL DEFAULT '',
	favorite_classes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS users_located_idx ON users (user_id)
	WHERE latitude IS NOT NULL AND longitude IS NOT NULL;
`

// Migrate creates the tables the service needs if they are missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	logger.Log.Infow("schema migration", "error", err)
	return err
}
