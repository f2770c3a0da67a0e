// Package router wires the HTTP routes and implements the request
// handlers. Each handler resolves the session identity, consults the
// access policy, touches the stores and produces either a redirect, a
// rendered page or a plain-text status message.
package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tinyapp-web/tinyapp/internal/auth"
	"github.com/tinyapp-web/tinyapp/internal/logger"
	"github.com/tinyapp-web/tinyapp/internal/models"
	"github.com/tinyapp-web/tinyapp/internal/policy"
	"github.com/tinyapp-web/tinyapp/internal/session"
	"github.com/tinyapp-web/tinyapp/internal/user"
	"github.com/tinyapp-web/tinyapp/internal/view"
)

// User-facing texts. Browsing denials render the error page; denials of
// mutating actions answer with a plain-text message instead.
const (
	msgLinkNotFound      = "No TinyApp url found"
	msgMustLogInToView   = "You must be logged in to view this page"
	msgNotYourLink       = "This TinyApp URL does not belong to you"
	msgTinyURLNotExist   = "This tiny url does not exist"
	msgMustLogInToCreate = "Uh oh! You must be logged in to shorten a URL"
	msgCannotDelete      = "You are not authorized to delete this tiny url"
	msgCannotEdit        = "You are not authorized to edit this tiny url"
	msgInvalidSignup     = "Oops! Please enter a valid email address and password"
	msgEmailTaken        = "Oops! This email address is already in our system"
	msgEmailIncorrect    = "Oops! Email is incorrect"
	msgWrongPassword     = "Oops! Wrong password"
)

type linkKeeper interface {
	CreateLink(ctx context.Context, longURL, ownerID string) (string, error)
	FindLinkByShortKey(ctx context.Context, shortKey string) (models.Link, bool, error)
	FindLinksByOwner(ctx context.Context, ownerID string) ([]models.Link, error)
	UpdateLinkURL(ctx context.Context, shortKey, newURL string) error
	DeleteLink(ctx context.Context, shortKey string) error
}

type sessionManager interface {
	Start(response http.ResponseWriter, userID string) error
	End(response http.ResponseWriter)
	ResolveUser(h http.Handler) http.Handler
}

type accounts interface {
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// Router holds the collaborators shared by all request handlers.
type Router struct {
	db       linkKeeper
	sessions sessionManager
	accounts accounts
	views    *view.View
}

// New assembles the chi router with logging and session-resolution
// middleware applied to every route.
func New(
	db linkKeeper,
	sessions sessionManager,
	accounts accounts,
	views *view.View,
) *chi.Mux {
	myRouter := &Router{
		db:       db,
		sessions: sessions,
		accounts: accounts,
		views:    views,
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		sessions.ResolveUser,
	)

	router.Get(`/`, myRouter.GetRoot)
	router.Get(`/urls`, myRouter.GetUrls)
	router.Get(`/urls/new`, myRouter.GetUrlsNew)
	router.Get(`/urls/{shortKey}`, myRouter.GetUrlShow)
	router.Get(`/u/{shortKey}`, myRouter.GetRedirectToLongURL)
	router.Get(`/register`, myRouter.GetRegister)
	router.Get(`/login`, myRouter.GetLogin)

	router.Post(`/urls`, myRouter.PostUrls)
	router.Post(`/urls/{shortKey}/delete`, myRouter.PostUrlDelete)
	router.Post(`/urls/{shortKey}`, myRouter.PostUrlUpdate)
	router.Post(`/register`, myRouter.PostRegister)
	router.Post(`/login`, myRouter.PostLogin)
	router.Post(`/logout`, myRouter.PostLogout)

	return router
}

// GetRoot sends authenticated visitors to their listing and everyone else
// to the login page.
func (rt *Router) GetRoot(response http.ResponseWriter, request *http.Request) {
	if session.UserFromContext(request.Context()) != nil {
		http.Redirect(response, request, "/urls", http.StatusFound)

		return
	}

	http.Redirect(response, request, "/login", http.StatusFound)
}

// GetUrls renders the listing of the current user's links. Anonymous
// visitors get the page with an empty listing.
func (rt *Router) GetUrls(response http.ResponseWriter, request *http.Request) {
	usr := session.UserFromContext(request.Context())

	var links []models.Link
	if usr != nil {
		var err error
		links, err = rt.db.FindLinksByOwner(request.Context(), usr.ID)
		if err != nil {
			logger.Log.Debugln("Error calling the `rt.db.FindLinksByOwner()`: ", zap.Error(err))
			response.WriteHeader(http.StatusInternalServerError)

			return
		}
	}

	rt.views.Render(response, http.StatusOK, "urls_index", view.IndexData{
		User:  usr,
		Links: links,
	})
}

// GetUrlsNew renders the link-creation form for authenticated users only.
func (rt *Router) GetUrlsNew(response http.ResponseWriter, request *http.Request) {
	usr := session.UserFromContext(request.Context())
	if usr == nil {
		http.Redirect(response, request, "/login", http.StatusFound)

		return
	}

	rt.views.Render(response, http.StatusOK, "urls_new", view.NewData{User: usr})
}

// GetUrlShow renders a link's detail page when the access policy allows
// it and the structured error page otherwise.
func (rt *Router) GetUrlShow(response http.ResponseWriter, request *http.Request) {
	usr := session.UserFromContext(request.Context())
	shortKey := chi.URLParam(request, "shortKey")

	link, found, err := rt.db.FindLinkByShortKey(request.Context(), shortKey)
	if err != nil {
		logger.Log.Debugln("Error calling the `rt.db.FindLinkByShortKey()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	decision := policy.CheckLinkAccess(currentUserID(usr), link, found)
	switch decision {
	case policy.NotFound:
		rt.views.Render(response, decision.HTTPStatus(), "urls_error", view.ErrorData{
			User:    usr,
			Status:  decision.HTTPStatus(),
			Message: msgLinkNotFound,
		})

	case policy.Unauthenticated:
		rt.views.Render(response, decision.HTTPStatus(), "urls_error", view.ErrorData{
			User:    usr,
			Status:  decision.HTTPStatus(),
			Message: msgMustLogInToView,
		})

	case policy.Forbidden:
		rt.views.Render(response, decision.HTTPStatus(), "urls_error", view.ErrorData{
			User:     usr,
			Status:   decision.HTTPStatus(),
			Message:  msgNotYourLink,
			ShortKey: shortKey,
		})

	case policy.Allowed:
		rt.views.Render(response, http.StatusOK, "urls_show", view.ShowData{
			User:     usr,
			ShortKey: shortKey,
			LongURL:  link.LongURL,
		})
	}
}

// GetRedirectToLongURL resolves a short key for any caller. Only
// existence is checked here; ownership never matters for redirects.
func (rt *Router) GetRedirectToLongURL(response http.ResponseWriter, request *http.Request) {
	shortKey := chi.URLParam(request, "shortKey")

	link, found, err := rt.db.FindLinkByShortKey(request.Context(), shortKey)
	if err != nil {
		logger.Log.Debugln("Error calling the `rt.db.FindLinkByShortKey()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}
	if !found {
		http.Error(response, msgTinyURLNotExist, http.StatusNotFound)

		return
	}

	http.Redirect(response, request, link.LongURL, http.StatusTemporaryRedirect)
}

// GetRegister renders the registration form, or redirects visitors who
// are already signed in.
func (rt *Router) GetRegister(response http.ResponseWriter, request *http.Request) {
	usr := session.UserFromContext(request.Context())
	if usr != nil {
		http.Redirect(response, request, "/urls", http.StatusFound)

		return
	}

	rt.views.Render(response, http.StatusOK, "urls_register", view.AuthData{User: usr})
}

// GetLogin renders the login form, or redirects visitors who are already
// signed in.
func (rt *Router) GetLogin(response http.ResponseWriter, request *http.Request) {
	usr := session.UserFromContext(request.Context())
	if usr != nil {
		http.Redirect(response, request, "/urls", http.StatusFound)

		return
	}

	rt.views.Render(response, http.StatusOK, "urls_login", view.AuthData{User: usr})
}

// PostUrls creates a new link owned by the current user and redirects to
// its detail page.
func (rt *Router) PostUrls(response http.ResponseWriter, request *http.Request) {
	usr := session.UserFromContext(request.Context())
	if !policy.CanCreateLink(currentUserID(usr)) {
		http.Error(response, msgMustLogInToCreate, http.StatusUnauthorized)

		return
	}

	longURL := request.PostFormValue("longURL")

	shortKey, err := rt.db.CreateLink(request.Context(), longURL, usr.ID)
	if err != nil {
		logger.Log.Debugln("Error calling the `rt.db.CreateLink()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	http.Redirect(response, request, "/urls/"+shortKey, http.StatusFound)
}

// PostUrlDelete deletes a link after the full policy check: a missing
// record answers 404 before any ownership complaint.
func (rt *Router) PostUrlDelete(response http.ResponseWriter, request *http.Request) {
	usr := session.UserFromContext(request.Context())
	shortKey := chi.URLParam(request, "shortKey")

	link, found, err := rt.db.FindLinkByShortKey(request.Context(), shortKey)
	if err != nil {
		logger.Log.Debugln("Error calling the `rt.db.FindLinkByShortKey()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	decision := policy.CheckLinkAccess(currentUserID(usr), link, found)
	if decision != policy.Allowed {
		http.Error(response, deniedActionMessage(decision, msgCannotDelete), decision.HTTPStatus())

		return
	}

	if err := rt.db.DeleteLink(request.Context(), shortKey); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(response, msgTinyURLNotExist, http.StatusNotFound)

			return
		}
		logger.Log.Debugln("Error calling the `rt.db.DeleteLink()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	http.Redirect(response, request, "/urls", http.StatusFound)
}

// PostUrlUpdate rewrites a link's destination after the same policy check
// as deletion.
func (rt *Router) PostUrlUpdate(response http.ResponseWriter, request *http.Request) {
	usr := session.UserFromContext(request.Context())
	shortKey := chi.URLParam(request, "shortKey")

	link, found, err := rt.db.FindLinkByShortKey(request.Context(), shortKey)
	if err != nil {
		logger.Log.Debugln("Error calling the `rt.db.FindLinkByShortKey()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	decision := policy.CheckLinkAccess(currentUserID(usr), link, found)
	if decision != policy.Allowed {
		http.Error(response, deniedActionMessage(decision, msgCannotEdit), decision.HTTPStatus())

		return
	}

	newURL := request.PostFormValue("longURL")

	if err := rt.db.UpdateLinkURL(request.Context(), shortKey, newURL); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(response, msgTinyURLNotExist, http.StatusNotFound)

			return
		}
		logger.Log.Debugln("Error calling the `rt.db.UpdateLinkURL()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	http.Redirect(response, request, "/urls", http.StatusFound)
}

// PostRegister creates a user from the submitted form, starts a session
// for it and redirects to the listing.
func (rt *Router) PostRegister(response http.ResponseWriter, request *http.Request) {
	email := request.PostFormValue("email")
	password := request.PostFormValue("password")

	userID, err := rt.accounts.Register(request.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			http.Error(response, msgInvalidSignup, http.StatusBadRequest)

		case errors.Is(err, models.ErrEmailTaken):
			http.Error(response, msgEmailTaken, http.StatusBadRequest)

		default:
			logger.Log.Debugln("Error calling the `rt.accounts.Register()`: ", zap.Error(err))
			response.WriteHeader(http.StatusInternalServerError)
		}

		return
	}

	if err := rt.sessions.Start(response, userID); err != nil {
		logger.Log.Debugln("Error calling the `rt.sessions.Start()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	http.Redirect(response, request, "/urls", http.StatusFound)
}

// PostLogin verifies the submitted credentials and starts a session. The
// two failure modes keep their distinct messages.
func (rt *Router) PostLogin(response http.ResponseWriter, request *http.Request) {
	email := request.PostFormValue("email")
	password := request.PostFormValue("password")

	userID, err := rt.accounts.Login(request.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailNotFound):
			http.Error(response, msgEmailIncorrect, http.StatusForbidden)

		case errors.Is(err, auth.ErrWrongPassword):
			http.Error(response, msgWrongPassword, http.StatusForbidden)

		default:
			logger.Log.Debugln("Error calling the `rt.accounts.Login()`: ", zap.Error(err))
			response.WriteHeader(http.StatusInternalServerError)
		}

		return
	}

	if err := rt.sessions.Start(response, userID); err != nil {
		logger.Log.Debugln("Error calling the `rt.sessions.Start()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	http.Redirect(response, request, "/urls", http.StatusFound)
}

// PostLogout clears the session unconditionally. It cannot fail.
func (rt *Router) PostLogout(response http.ResponseWriter, request *http.Request) {
	rt.sessions.End(response)
	http.Redirect(response, request, "/login", http.StatusFound)
}

func currentUserID(usr *user.User) string {
	if usr == nil {
		return ""
	}

	return usr.ID
}

func deniedActionMessage(decision policy.Decision, authzMessage string) string {
	if decision == policy.NotFound {
		return msgTinyURLNotExist
	}

	return authzMessage
}
