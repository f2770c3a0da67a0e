package policy

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tinyapp-web/tinyapp/internal/models"
)

func TestCheckLinkAccess(t *testing.T) {
	ownedLink := models.Link{
		ShortKey: "abc12345",
		LongURL:  "https://example.com",
		OwnerID:  "owner-1",
	}

	tests := []struct {
		name   string
		userID string
		link   models.Link
		exists bool
		want   Decision
	}{
		{
			name:   "absent link yields NotFound even for its would-be owner",
			userID: "owner-1",
			exists: false,
			want:   NotFound,
		},
		{
			name:   "absent link and anonymous caller still yields NotFound first",
			userID: "",
			exists: false,
			want:   NotFound,
		},
		{
			name:   "anonymous caller is unauthenticated regardless of the owner",
			userID: "",
			link:   ownedLink,
			exists: true,
			want:   Unauthenticated,
		},
		{
			name:   "authenticated non-owner is forbidden",
			userID: "owner-2",
			link:   ownedLink,
			exists: true,
			want:   Forbidden,
		},
		{
			name:   "owner is allowed",
			userID: "owner-1",
			link:   ownedLink,
			exists: true,
			want:   Allowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckLinkAccess(tt.userID, tt.link, tt.exists))
		})
	}
}

func TestCanCreateLink(t *testing.T) {
	assert.False(t, CanCreateLink(""))
	assert.True(t, CanCreateLink("owner-1"))
}

func TestDecisionHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound.HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, Unauthenticated.HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, Forbidden.HTTPStatus())
	assert.Equal(t, http.StatusOK, Allowed.HTTPStatus())
}
