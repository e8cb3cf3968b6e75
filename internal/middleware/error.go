package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"studio-site/internal/data"
	"studio-site/internal/logger"
	"studio-site/internal/view"
)

// AppError represents a custom error type for the application.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// NotFound builds a 404 AppError.
func NotFound(err error) *AppError {
	return &AppError{Error: err, Message: "Page introuvable", Code: http.StatusNotFound}
}

// Internal builds an AppError for err, reported as a 404 when a record is
// missing and as a 500 otherwise.
func Internal(err error, message string) *AppError {
	if errors.Is(err, data.ErrNotFound) {
		return NotFound(err)
	}
	return &AppError{Error: err, Message: message, Code: http.StatusInternalServerError}
}

// Error is a middleware that converts handler errors into user-friendly error pages.
func Error(log logger.Logger, v *view.View) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					log.Error(err, "Panic recovered")
					renderError(w, r, v, log, http.StatusInternalServerError, "Erreur interne")
				}
			}()

			appErr := next(w, r)
			if appErr == nil {
				return
			}
			fields := map[string]interface{}{"path": r.URL.Path, "status": appErr.Code}
			if appErr.Code >= http.StatusInternalServerError {
				log.With(fields).Error(appErr.Error, appErr.Message)
			} else {
				log.With(fields).Debug(appErr.Message)
			}
			renderError(w, r, v, log, appErr.Code, appErr.Message)
		})
	}
}

func renderError(w http.ResponseWriter, r *http.Request, v *view.View, log logger.Logger, code int, message string) {
	data := map[string]interface{}{
		"StatusCode": code,
		"StatusText": message,
	}
	if err := v.Page(w, r, code, "error.html", data); err != nil {
		log.Error(err, "Failed to render error page")
		http.Error(w, message, code)
	}
}
