// Package storage declares the persistence contracts the rest of the
// application is written against. Handlers and services depend on these
// interfaces only, so the backing implementation can be swapped without
// touching them.
package storage

import (
	"context"

	"github.com/tinyapp-web/tinyapp/internal/models"
	"github.com/tinyapp-web/tinyapp/internal/user"
)

// UserKeeper is the identity store. Users are created once and never
// updated or deleted.
type UserKeeper interface {
	// CreateUser registers a new user and returns its id. The duplicate
	// email check and the insert are atomic. Returns models.ErrEmailTaken
	// when the email already belongs to a user.
	CreateUser(ctx context.Context, email, passwordHash string) (string, error)

	FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error)

	FindUserByID(ctx context.Context, userID string) (*user.User, bool, error)
}

// LinkKeeper is the link store, keyed by short key.
type LinkKeeper interface {
	// CreateLink generates a fresh unique short key, inserts the record
	// and returns the key. Generation retries on collision.
	CreateLink(ctx context.Context, longURL, ownerID string) (string, error)

	FindLinkByShortKey(ctx context.Context, shortKey string) (models.Link, bool, error)

	// FindLinksByOwner returns the owner's links in a deterministic order.
	FindLinksByOwner(ctx context.Context, ownerID string) ([]models.Link, error)

	// UpdateLinkURL overwrites the destination of an existing link.
	// The caller is expected to have authorized the operation already.
	UpdateLinkURL(ctx context.Context, shortKey, newURL string) error

	// DeleteLink removes an existing link. The caller is expected to have
	// authorized the operation already.
	DeleteLink(ctx context.Context, shortKey string) error
}

// Storage combines the identity and link stores.
type Storage interface {
	UserKeeper
	LinkKeeper

	Close() error
}
