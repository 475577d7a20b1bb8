package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/garnizeh/devconnect/pkg/models"
	"github.com/garnizeh/devconnect/pkg/repository"
)

func (r *PostgresRepo) CreateAccount(ctx context.Context, a *models.Account) error {
	if a == nil {
		return fmt.Errorf("account is nil")
	}
	if a.ID == "" {
		return fmt.Errorf("account id is empty")
	}

	a.Email = normalizeEmail(a.Email)
	created := time.Now().UTC().Truncate(time.Microsecond)
	_, err := r.pool.Exec(ctx, `INSERT INTO accounts (id, name, email, avatar, password_hash, created) VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.Name, a.Email, a.Avatar, a.PasswordHash, created)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert account: %w", err)
	}
	a.Created = created

	return nil
}

func (r *PostgresRepo) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, email, avatar, password_hash, created FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *PostgresRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, email, avatar, password_hash, created FROM accounts WHERE email = $1`, normalizeEmail(email))
	return scanAccount(row)
}

// DeleteAccount removes the profile and then the account in one transaction.
func (r *PostgresRepo) DeleteAccount(ctx context.Context, id string) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM profiles WHERE account_id = $1`, id); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("account deleted", slog.String("account_id", id))
	return nil
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Avatar, &a.PasswordHash, &a.Created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.Created = a.Created.UTC()

	return &a, nil
}
