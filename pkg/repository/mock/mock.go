package mock

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/garnizeh/devconnect/pkg/models"
	"github.com/garnizeh/devconnect/pkg/repository"
)

// Store is an in-memory AccountRepo and ProfileRepo for handler tests. Values are
// copied on the way in and out so callers never share state with the store.
type Store struct {
	mu       sync.Mutex
	accounts map[string]models.Account
	profiles map[string]models.Profile

	// Error hooks returned by the matching method when set.
	CreateErr error
	GetErr    error
	SaveErr   error
	DeleteErr error
	PingErr   error
}

var _ repository.AccountRepo = (*Store)(nil)
var _ repository.ProfileRepo = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]models.Account),
		profiles: make(map[string]models.Profile),
	}
}

func (s *Store) Ping(ctx context.Context) error { return s.PingErr }

func (s *Store) CreateAccount(ctx context.Context, a *models.Account) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	s.accounts[a.ID] = *a
	return nil
}

func (s *Store) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) {
			return &a, nil
		}
	}
	return nil, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, id)
	delete(s.accounts, id)
	return nil
}

func (s *Store) GetProfileByAccount(ctx context.Context, accountID string) (*models.Profile, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[accountID]
	if !ok {
		return nil, nil
	}
	out := s.joined(p)
	return &out, nil
}

func (s *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, s.joined(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Updated.After(out[j].Updated) })
	return out, nil
}

func (s *Store) SaveProfile(ctx context.Context, p *models.Profile) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.AccountID] = clone(p.Document())
	return nil
}

func (s *Store) DeleteProfile(ctx context.Context, accountID string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, accountID)
	return nil
}

func (s *Store) joined(p models.Profile) models.Profile {
	out := clone(p)
	if a, ok := s.accounts[p.AccountID]; ok {
		out.User = &models.ProfileOwner{ID: a.ID, Name: a.Name, Avatar: a.Avatar}
	}
	return out
}

// clone deep-copies a profile through its JSON document form.
func clone(p models.Profile) models.Profile {
	b, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}
	var out models.Profile
	if err := json.Unmarshal(b, &out); err != nil {
		panic(err)
	}
	out.AccountID = p.AccountID
	return out
}
