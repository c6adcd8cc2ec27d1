package guard

import (
	"net/http"
	"net/url"

	"kidofood-web/internal/logger"
	"kidofood-web/internal/metrics"

	"go.uber.org/zap"
)

// Chain runs stages outer-first and stops at the first redirect.
type Chain []Stage

// Run evaluates the stages one after another. A fallback redirect to the
// login or claim page is ignored when the visitor is already there, so
// /login never bounces to itself. Role redirects are always followed.
func (c Chain) Run(r *http.Request) Decision {
	log := logger.FromCtx(r.Context()).With(zap.String("path", r.URL.Path))

	for _, stage := range c {
		d := stage.Check(r)
		red, redirect := d.Redirect()
		if !redirect {
			log.Debug("guard passed", zap.String("guard", stage.Name()))
			continue
		}
		if d.fallback && alreadyThere(red.Destination, r.URL.Path) {
			log.Info("guard redirect to current page ignored",
				zap.String("guard", stage.Name()),
				zap.String("destination", red.Destination),
			)
			continue
		}
		metrics.GuardRedirects.Inc()
		log.Info("guard redirected",
			zap.String("guard", stage.Name()),
			zap.String("destination", red.Destination),
		)
		return d
	}
	return Continue()
}

// alreadyThere reports whether the visitor is on the page a fallback sends
// them to. Register counts as the login page: both serve anonymous
// visitors, and the backend answers them with an error envelope.
func alreadyThere(destination, path string) bool {
	if samePath(destination, path) {
		return true
	}
	return samePath(destination, LoginPath) && path == RegisterPath
}

func samePath(destination, path string) bool {
	u, err := url.Parse(destination)
	if err != nil || u.IsAbs() {
		return false
	}
	return u.Path == path
}

// Result is what a page loader produces: either props to render or a
// redirect.
type Result struct {
	Props    any
	Redirect *Redirect
}

// Props is the common loader return for pages that render.
func Props(v any) (Result, error) {
	return Result{Props: v}, nil
}

// LoadFunc is a page's own server-side data loader.
type LoadFunc func(r *http.Request) (Result, error)

// Wrap returns a loader with the same signature that runs the stages
// before load. Wrapping twice nests: the outer stages run first.
func Wrap(load LoadFunc, stages ...Stage) LoadFunc {
	chain := Chain(stages)
	return func(r *http.Request) (Result, error) {
		if red, redirect := chain.Run(r).Redirect(); redirect {
			return Result{Redirect: &red}, nil
		}
		return load(r)
	}
}

// Middleware is the http.Handler form of Wrap.
func Middleware(stages ...Stage) func(http.Handler) http.Handler {
	chain := Chain(stages)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if red, redirect := chain.Run(r).Redirect(); redirect {
				http.Redirect(w, r, red.Destination, red.StatusCode())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
