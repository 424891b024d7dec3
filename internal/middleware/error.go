package middleware

import (
	"fmt"
	"net/http"

	"go-blog-app/internal/logger"
	"go-blog-app/internal/view"
)

// AppError represents a handler failure carrying the HTTP status to render.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// AppHandler is a handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// Error is a middleware that converts handler errors into user-facing error
// pages, logging the underlying cause.
func Error(log logger.Logger, views *view.View) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					log.Error(err, "Panic recovered")
					renderError(w, r, views, http.StatusInternalServerError, "Internal Server Error")
				}
			}()

			if err := next(w, r); err != nil {
				log.Error(err.Error, err.Message)
				renderError(w, r, views, err.Code, err.Message)
			}
		})
	}
}

func renderError(w http.ResponseWriter, r *http.Request, views *view.View, code int, text string) {
	w.WriteHeader(code)
	data := map[string]interface{}{
		"StatusCode": code,
		"StatusText": text,
		"Locale":     GetLocale(r.Context()),
	}
	views.Render(w, "error.html", data)
}
