// Package user defines the user model used throughout the application,
// particularly for authentication and link ownership.
package user

// User represents a registered account. Records are immutable after
// creation: there are no update or delete operations on users.
type User struct {
	// ID is the unique identifier of the user, meaning a UUID.
	ID string

	// Email is unique across users, compared case-sensitively as stored.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string
}
