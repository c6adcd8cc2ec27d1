package theme

import (
	"net/http"
	"strings"

	"kidofood-web/internal/logger"

	"go.uber.org/zap"
)

// HintHeader is the client hint carrying the OS color scheme.
const HintHeader = "Sec-CH-Prefers-Color-Scheme"

// SystemPrefersDark reads the OS preference the browser reported.
func SystemPrefersDark(r *http.Request) bool {
	if r == nil {
		return false
	}
	v := strings.Trim(strings.TrimSpace(r.Header.Get(HintHeader)), `"`)
	return strings.EqualFold(v, "dark")
}

// HintMiddleware asks browsers to send the color scheme hint.
func HintMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Accept-CH", HintHeader)
		h.Set("Critical-CH", HintHeader)
		h.Add("Vary", HintHeader)
		next.ServeHTTP(w, r)
	})
}

// Resolve reads the visitor's preference for rendering, logging storage
// problems instead of failing the page.
func Resolve(w http.ResponseWriter, r *http.Request, secure bool) Preference {
	pref, err := Read(NewCookieStorage(w, r, secure), SystemPrefersDark(r))
	if err != nil && r != nil {
		logger.FromCtx(r.Context()).Warn("falling back on theme preference",
			zap.String("source", pref.Source.String()),
			zap.Error(err),
		)
	}
	return pref
}
