package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"kidofood-web/internal/logger"
	"kidofood-web/internal/model"
	"kidofood-web/internal/session"
	"kidofood-web/internal/theme"

	"go.uber.org/zap"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// View is the root value every template receives.
type View struct {
	Title string
	Theme theme.Preference
	User  *model.User
	Query string
	Data  any
}

// Renderer holds one template set per page, each sharing the layout.
type Renderer struct {
	pages  map[string]*template.Template
	secure bool
}

func NewRenderer(secureCookies bool) (*Renderer, error) {
	base, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		t, err := template.Must(base.Clone()).ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		name := path.Base(file)
		pages[name[:len(name)-len(".html")]] = t
	}

	return &Renderer{pages: pages, secure: secureCookies}, nil
}

// Render executes the page into a buffer first so a template error never
// leaves a half written response.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	log := logger.FromCtx(r.Context())

	t, ok := v.pages[name]
	if !ok {
		log.Error("unknown page template", zap.String("page", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	view := View{
		Title: title,
		Theme: theme.Resolve(w, r, v.secure),
		Query: r.URL.Query().Get("q"),
		Data:  data,
	}
	if user, ok := session.FromContext(r.Context()).User(); ok {
		view.User = &user
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", view); err != nil {
		log.Error("failed to render page", zap.String("page", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug("client went away while writing page", zap.Error(err))
	}
}

type errorProps struct {
	Status  int
	Message string
}

func (v *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	v.Render(w, r, status, "error", http.StatusText(status), errorProps{Status: status, Message: message})
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
