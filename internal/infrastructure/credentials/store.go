package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/simbatda/backend/internal/domain"
)

// Store reads stored platform tokens from Postgres. Rows are written by the
// account-management service; the search core only ever reads them, to
// attach authenticated-scraping headers where a platform supports them.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a token store over an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Token returns the most recently updated token for a platform, or "" when
// none is stored.
func (s *Store) Token(ctx context.Context, platform domain.Platform) (string, error) {
	var token string
	err := s.pool.QueryRow(ctx,
		`SELECT token
		   FROM connected_platforms
		  WHERE platform_name = $1
		  ORDER BY updated_at DESC
		  LIMIT 1`,
		string(platform),
	).Scan(&token)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("credentials lookup for %s: %w", platform, err)
	}
	return token, nil
}
