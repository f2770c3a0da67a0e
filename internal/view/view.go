// Package view projects handler data bags into HTML pages. Templates are
// embedded at build time; each page takes a typed data struct and nothing
// else, so handlers stay free of markup concerns.
package view

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/tinyapp-web/tinyapp/internal/logger"
	"github.com/tinyapp-web/tinyapp/internal/models"
	"github.com/tinyapp-web/tinyapp/internal/user"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

// IndexData feeds the urls_index page.
type IndexData struct {
	User  *user.User
	Links []models.Link
}

// NewData feeds the urls_new page.
type NewData struct {
	User *user.User
}

// ShowData feeds the urls_show page.
type ShowData struct {
	User     *user.User
	ShortKey string
	LongURL  string
}

// AuthData feeds the urls_register and urls_login pages.
type AuthData struct {
	User *user.User
}

// ErrorData feeds the urls_error page. ShortKey is set only when the
// denial concerns a specific link.
type ErrorData struct {
	User     *user.User
	Status   int
	Message  string
	ShortKey string
}

// View renders embedded templates by page name.
type View struct {
	templates *template.Template
}

func New() (*View, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.gohtml")
	if err != nil {
		return nil, err
	}

	return &View{templates: templates}, nil
}

// Render executes the named page into the response with the given status.
// The page is rendered into a buffer first so a template error never
// produces a half-written body.
func (v *View) Render(response http.ResponseWriter, status int, page string, data interface{}) {
	var buf bytes.Buffer
	if err := v.templates.ExecuteTemplate(&buf, page+".gohtml", data); err != nil {
		logger.Log.Debugln("Error rendering the template: ", zap.Error(err))
		http.Error(response, "internal rendering error", http.StatusInternalServerError)

		return
	}

	response.Header().Set("Content-Type", "text/html; charset=utf-8")
	response.WriteHeader(status)
	_, _ = buf.WriteTo(response)
}
