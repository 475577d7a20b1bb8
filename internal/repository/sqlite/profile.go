package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/garnizeh/devconnect/pkg/models"
)

const profileSelect = `SELECT p.account_id, p.doc, a.name, a.avatar FROM profiles p JOIN accounts a ON a.id = p.account_id`

func (r *SQLiteRepo) GetProfileByAccount(ctx context.Context, accountID string) (*models.Profile, error) {
	row := r.conn.QueryRow(ctx, profileSelect+` WHERE p.account_id = ?`, accountID)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return p, nil
}

func (r *SQLiteRepo) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := r.conn.QueryRows(ctx, profileSelect+` ORDER BY p.updated DESC`)
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
func (r *SQLiteRepo) SaveProfile(ctx context.Context, p *models.Profile) error {
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

	_, err = r.conn.Exec(ctx, `INSERT INTO profiles (account_id, doc, updated) VALUES (?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET doc = excluded.doc, updated = excluded.updated`,
		p.AccountID, string(doc), p.Updated.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) DeleteProfile(ctx context.Context, accountID string) error {
	if _, err := r.conn.Exec(ctx, `DELETE FROM profiles WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*models.Profile, error) {
	var (
		accountID, doc, name, avatar string
	)
	if err := s.Scan(&accountID, &doc, &name, &avatar); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	var p models.Profile
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", accountID, err)
	}
	p.AccountID = accountID
	p.User = &models.ProfileOwner{ID: accountID, Name: name, Avatar: avatar}

	return &p, nil
}
