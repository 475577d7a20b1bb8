package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/garnizeh/devconnect/pkg/models"
	"github.com/garnizeh/devconnect/pkg/repository"
)

func (r *SQLiteRepo) CreateAccount(ctx context.Context, a *models.Account) error {
	if a == nil {
		return fmt.Errorf("account is nil")
	}
	if a.ID == "" {
		return fmt.Errorf("account id is empty")
	}

	a.Email = normalizeEmail(a.Email)
	created := now()
	_, err := r.conn.Exec(ctx, `INSERT INTO accounts (id, name, email, avatar, password_hash, created) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Email, a.Avatar, a.PasswordHash, created)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert account: %w", err)
	}
	a.Created = fromMillis(created)

	return nil
}

func (r *SQLiteRepo) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name, email, avatar, password_hash, created FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *SQLiteRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name, email, avatar, password_hash, created FROM accounts WHERE email = ?`, normalizeEmail(email))
	return scanAccount(row)
}

// DeleteAccount removes the profile and then the account in one transaction.
func (r *SQLiteRepo) DeleteAccount(ctx context.Context, id string) error {
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE account_id = ?`, id); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
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

func scanAccount(row *sql.Row) (*models.Account, error) {
	var a models.Account
	var created int64
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Avatar, &a.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.Created = fromMillis(created)

	return &a, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
