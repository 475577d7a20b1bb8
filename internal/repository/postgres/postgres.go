package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garnizeh/devconnect/internal/document"
	"github.com/garnizeh/devconnect/pkg/repository"
)

const uniqueViolation = "23505"

// PostgresRepo stores accounts in a table and profiles as JSONB documents.
type PostgresRepo struct {
	pool   *pgxpool.Pool
	docs   *document.Validator
	logger *slog.Logger
}

var _ repository.AccountRepo = (*PostgresRepo)(nil)
var _ repository.ProfileRepo = (*PostgresRepo)(nil)

func New(pool *pgxpool.Pool, logger *slog.Logger) (*PostgresRepo, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &PostgresRepo{pool: pool, docs: document.MustValidator(), logger: logger}, nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
