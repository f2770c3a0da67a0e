// Package models holds the link record shared between storage, policy
// and handlers, along with the sentinel errors the storage layer reports.
package models

import "errors"

// Link is a single shortened URL record. ShortKey acts as the primary key;
// OwnerID is the id of the user who created the link and never changes
// after insertion.
type Link struct {
	ShortKey string
	LongURL  string
	OwnerID  string
}

// ErrNotFound is returned when a short key has no record in the store.
var ErrNotFound = errors.New("short URL not found")

// ErrEmailTaken is returned when registering with an email that already
// belongs to a user. The comparison is case-sensitive, without normalization.
var ErrEmailTaken = errors.New("email is already registered")

// ErrKeyspaceExhausted is returned when short key generation keeps
// colliding with existing keys. Practically unreachable with an
// eight-character alphanumeric keyspace.
var ErrKeyspaceExhausted = errors.New("the number of attempts to generate a unique key has been exceeded")
