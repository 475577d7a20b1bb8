package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/devconnect/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Lookups return (nil, nil) when nothing matches.

// ErrDuplicateEmail is returned by CreateAccount when the email is already registered.
var ErrDuplicateEmail = errors.New("repository: email already registered")

type AccountRepo interface {
	CreateAccount(ctx context.Context, a *models.Account) error
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	// DeleteAccount removes the account together with its profile.
	DeleteAccount(ctx context.Context, id string) error
}

type ProfileRepo interface {
	// GetProfileByAccount returns the profile joined with the owner's name and avatar.
	GetProfileByAccount(ctx context.Context, accountID string) (*models.Profile, error)
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	// SaveProfile creates or replaces the profile document keyed by p.AccountID.
	SaveProfile(ctx context.Context, p *models.Profile) error
	DeleteProfile(ctx context.Context, accountID string) error
}
