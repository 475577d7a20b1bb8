package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/garnizeh/devconnect/pkg/models"
)

const profileSelect = `SELECT p.account_id, p.doc, a.name, a.avatar FROM profiles p JOIN accounts a ON a.id = p.account_id`

func (r *PostgresRepo) GetProfileByAccount(ctx context.Context, accountID string) (*models.Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, profileSelect+` WHERE p.account_id = $1`, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return p, nil
}

func (r *PostgresRepo) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := r.pool.Query(ctx, profileSelect+` ORDER BY p.updated DESC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	out := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	return out, nil
}

// SaveProfile validates the document form of p and upserts it by account id.
func (r *PostgresRepo) SaveProfile(ctx context.Context, p *models.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}
	if p.AccountID == "" {
		return fmt.Errorf("profile account id is empty")
	}

	doc, err := json.Marshal(p.Document())
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := r.docs.ValidateProfile(ctx, doc); err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO profiles (account_id, doc, updated) VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (account_id) DO UPDATE SET doc = EXCLUDED.doc, updated = EXCLUDED.updated`,
		p.AccountID, string(doc), p.Updated.UTC())
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	return nil
}

func (r *PostgresRepo) DeleteProfile(ctx context.Context, accountID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var (
		accountID, name, avatar string
		doc                     []byte
	)
	if err := row.Scan(&accountID, &doc, &name, &avatar); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	var p models.Profile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", accountID, err)
	}
	p.AccountID = accountID
	p.User = &models.ProfileOwner{ID: accountID, Name: name, Avatar: avatar}
	p.Updated = p.Updated.In(time.UTC)

	return &p, nil
}
