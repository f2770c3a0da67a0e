// Package memorystorage implements storage.Storage on plain in-process
// maps behind a single mutex. State lives for the process lifetime only.
package memorystorage

import (
	"context"
	"crypto/rand"
	"math/big"
	"sort"
	"sync"

	"github.com/google/uuid"
	funk "github.com/thoas/go-funk"

	"github.com/tinyapp-web/tinyapp/internal/models"
	"github.com/tinyapp-web/tinyapp/internal/user"
)

const (
	triesToGenerateUniqueKey = 10
	amtOfSymbolsToGenerate   = 8
)

// MemoryStorage keeps users and links in maps guarded by one RWMutex.
// Check-then-act sequences (duplicate email scan + insert, short key
// generation + insert, existence check + mutate) each run under a single
// lock acquisition.
type MemoryStorage struct {
	mu    sync.RWMutex
	users map[string]*user.User
	links map[string]models.Link
}

func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		users: map[string]*user.User{},
		links: map[string]models.Link{},
	}, nil
}

// CreateUser registers a new user record. The email uniqueness scan is
// case-sensitive and linear over all users.
func (s *MemoryStorage) CreateUser(ctx context.Context, email, passwordHash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, usr := range s.users {
		if usr.Email == email {
			return "", models.ErrEmailTaken
		}
	}

	userID := uuid.New().String()
	s.users[userID] = &user.User{
		ID:           userID,
		Email:        email,
		PasswordHash: passwordHash,
	}

	return userID, nil
}

func (s *MemoryStorage) FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, usr := range s.users {
		if usr.Email == email {
			found := *usr
			return &found, true, nil
		}
	}

	return nil, false, nil
}

func (s *MemoryStorage) FindUserByID(ctx context.Context, userID string) (*user.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	usr, ok := s.users[userID]
	if !ok {
		return nil, false, nil
	}
	found := *usr

	return &found, true, nil
}

// CreateLink generates a unique short key and inserts the record. The
// generation loop and the insert share one lock acquisition so a key
// cannot be claimed twice.
func (s *MemoryStorage) CreateLink(ctx context.Context, longURL, ownerID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shortKey, err := s.generateShortKey()
	if err != nil {
		return "", err
	}

	s.links[shortKey] = models.Link{
		ShortKey: shortKey,
		LongURL:  longURL,
		OwnerID:  ownerID,
	}

	return shortKey, nil
}

func (s *MemoryStorage) FindLinkByShortKey(ctx context.Context, shortKey string) (models.Link, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, found := s.links[shortKey]

	return link, found, nil
}

// FindLinksByOwner filters the whole store by owner id. The result is
// sorted by short key so repeated listings of the same snapshot render
// identically.
func (s *MemoryStorage) FindLinksByOwner(ctx context.Context, ownerID string) ([]models.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shortKeys := funk.Keys(s.links).([]string)
	sort.Strings(shortKeys)

	var result []models.Link
	for _, shortKey := range shortKeys {
		if s.links[shortKey].OwnerID == ownerID {
			result = append(result, s.links[shortKey])
		}
	}

	return result, nil
}

func (s *MemoryStorage) UpdateLinkURL(ctx context.Context, shortKey, newURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, found := s.links[shortKey]
	if !found {
		return models.ErrNotFound
	}

	link.LongURL = newURL
	s.links[shortKey] = link

	return nil
}

func (s *MemoryStorage) DeleteLink(ctx context.Context, shortKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.links[shortKey]; !found {
		return models.ErrNotFound
	}

	delete(s.links, shortKey)

	return nil
}

func (s *MemoryStorage) Close() error {
	return nil
}

func generateRandomString(length int) string {
	const symbols = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	var result string

	for i := 0; i < length; i++ {
		randomIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(symbols))))
		result += string(symbols[randomIndex.Int64()])
	}

	return result
}

// generateShortKey must be called with the write lock held.
func (s *MemoryStorage) generateShortKey() (string, error) {
	for i := 0; i < triesToGenerateUniqueKey; i++ {
		shortKey := generateRandomString(amtOfSymbolsToGenerate)
		if _, exists := s.links[shortKey]; !exists {
			return shortKey, nil
		}
	}

	return "", models.ErrKeyspaceExhausted
}
