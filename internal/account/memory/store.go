// Package memory provides an in-memory account.Store used in tests.
// It mirrors the postgres store's semantics, including uniqueness
// enforcement and all-or-nothing account+identity creation.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrymomot/devlog/internal/account"
)

type identityKey struct {
	provider   account.Provider
	providerID string
}

// Store is a mutex-guarded in-memory account store.
type Store struct {
	mu         sync.Mutex
	nextID     int64
	accounts   map[int64]*account.Account
	identities map[identityKey]int64
}

var _ account.Store = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{
		nextID:     1,
		accounts:   make(map[int64]*account.Account),
		identities: make(map[identityKey]int64),
	}
}

// BreakIdentity detaches the identity's account without removing the
// identity row, simulating the corruption FindByIdentity must surface.
func (s *Store) BreakIdentity(provider account.Provider, providerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.identities[identityKey{provider, providerID}]; ok {
		delete(s.accounts, id)
	}
}

func (s *Store) FindByIdentity(_ context.Context, provider account.Provider, providerID string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.identities[identityKey{provider, providerID}]
	if !ok {
		return nil, account.ErrIdentityNotFound
	}
	a, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: identity (%s, %s) points at missing account %d",
			account.ErrDataIntegrity, provider, providerID, id)
	}
	return copyOf(a), nil
}

func (s *Store) FindByID(_ context.Context, id int64) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, account.ErrNotFound
	}
	return copyOf(a), nil
}

func (s *Store) FindByIdname(_ context.Context, idname string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.byIdname(idname); a != nil {
		return copyOf(a), nil
	}
	return nil, account.ErrNotFound
}

func (s *Store) CreateWithIdentity(_ context.Context, p account.NewProfile) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := identityKey{p.Provider, p.ProviderID}
	if _, ok := s.identities[key]; ok {
		return nil, account.ErrIdentityExists
	}

	now := time.Now()
	a := &account.Account{
		ID:            s.nextID,
		Email:         p.Email,
		DisplayName:   p.DisplayName,
		AvatarURL:     p.AvatarURL,
		Status:        account.StatusPending,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.nextID++
	s.accounts[a.ID] = a
	s.identities[key] = a.ID
	return copyOf(a), nil
}

func (s *Store) UpdateEmail(_ context.Context, id int64, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return account.ErrNotFound
	}
	a.Email = email
	a.UpdatedAt = time.Now()
	return nil
}

func (s *Store) CompleteProfile(_ context.Context, id int64, idname, bio string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, account.ErrNotFound
	}
	if a.Status == account.StatusActive {
		return nil, account.ErrAlreadyActive
	}
	if other := s.byIdname(idname); other != nil && other.ID != id {
		return nil, account.ErrIdnameTaken
	}

	a.Idname = idname
	a.Bio = bio
	a.Status = account.StatusActive
	a.UpdatedAt = time.Now()
	return copyOf(a), nil
}

func (s *Store) UpdateBasicProfile(_ context.Context, id int64, p account.BasicProfile) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, account.ErrNotFound
	}
	if p.DisplayName != nil {
		a.DisplayName = *p.DisplayName
	}
	if p.Bio != nil {
		a.Bio = *p.Bio
	}
	a.UpdatedAt = time.Now()
	return copyOf(a), nil
}

func (s *Store) UpdateSocialLinks(_ context.Context, id int64, links account.SocialLinks) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, account.ErrNotFound
	}
	if links.Github != nil {
		a.Github = *links.Github
	}
	if links.Linkedin != nil {
		a.Linkedin = *links.Linkedin
	}
	if links.Website != nil {
		a.Website = *links.Website
	}
	a.UpdatedAt = time.Now()
	return copyOf(a), nil
}

func (s *Store) UpdateIdname(_ context.Context, id int64, idname string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.Status != account.StatusActive {
		return nil, account.ErrNotFound
	}
	if other := s.byIdname(idname); other != nil && other.ID != id {
		return nil, account.ErrIdnameTaken
	}
	a.Idname = idname
	a.UpdatedAt = time.Now()
	return copyOf(a), nil
}

func (s *Store) UpdateAvatar(_ context.Context, id int64, avatarURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return account.ErrNotFound
	}
	a.AvatarURL = avatarURL
	a.UpdatedAt = time.Now()
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return account.ErrNotFound
	}
	delete(s.accounts, id)
	for key, accountID := range s.identities {
		if accountID == id {
			delete(s.identities, key)
		}
	}
	return nil
}

func (s *Store) List(_ context.Context) ([]account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts := make([]account.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, *a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (s *Store) byIdname(idname string) *account.Account {
	for _, a := range s.accounts {
		if a.Idname == idname && idname != "" {
			return a
		}
	}
	return nil
}

func copyOf(a *account.Account) *account.Account {
	c := *a
	return &c
}
