// Package policy contains the pure access decisions guarding link records.
// These functions never touch storage or the request; callers resolve the
// session and fetch the record first, then ask for a classification.
package policy

import (
	"net/http"

	"github.com/tinyapp-web/tinyapp/internal/models"
)

// Decision classifies a request against a link record.
type Decision int

const (
	// Allowed means the caller may view, edit or delete the link.
	Allowed Decision = iota

	// NotFound means no link record exists for the requested key.
	NotFound

	// Unauthenticated means the link exists but the caller has no session;
	// the record's details must not be disclosed.
	Unauthenticated

	// Forbidden means the caller is authenticated but does not own the link.
	Forbidden
)

// CheckLinkAccess classifies an attempt by userID (empty when anonymous)
// to view, edit or delete a link. The rules apply in strict order:
// existence is checked before authentication, authentication before
// ownership. The same ordering is used for every mutating operation, so a
// missing record is never reported as a permission problem.
func CheckLinkAccess(userID string, link models.Link, exists bool) Decision {
	if !exists {
		return NotFound
	}

	if userID == "" {
		return Unauthenticated
	}

	if userID != link.OwnerID {
		return Forbidden
	}

	return Allowed
}

// CanCreateLink reports whether userID may create a new link. Creation
// requires authentication only; no ownership exists yet.
func CanCreateLink(userID string) bool {
	return userID != ""
}

// HTTPStatus maps a denial to its response status code. Forbidden maps to
// 401 rather than 403, matching the user-facing behavior of the service.
func (d Decision) HTTPStatus() int {
	switch d {
	case NotFound:
		return http.StatusNotFound
	case Unauthenticated, Forbidden:
		return http.StatusUnauthorized
	}

	return http.StatusOK
}
