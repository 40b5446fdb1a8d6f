package common

import (
	"errors"
	"log"
	"net/http"

	"github.com/bytedance/sonic"
)

// HttpError carries the status a handler error should be answered with.
type HttpError struct {
	Status int
	Err    error
}

func (e *HttpError) Error() string {
	return e.Err.Error()
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func NewHttpError(status int, err error) *HttpError {
	return &HttpError{Status: status, Err: err}
}

type Encoder interface {
	Encode(v any) error
}

func JsonHandler(fn func(w http.ResponseWriter, r *http.Request, enc Encoder) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		genericHeaders(w, r)
		err := fn(w, r, sonic.ConfigDefault.NewEncoder(w))
		if err == nil {
			return
		}
		status := http.StatusInternalServerError
		var httpErr *HttpError
		if errors.As(err, &httpErr) {
			status = httpErr.Status
		}
		if status >= http.StatusInternalServerError {
			log.Printf("error handling %s %s: %v", r.Method, r.URL.Path, err)
		}
		http.Error(w, err.Error(), status)
	}
}

func genericHeaders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.WriteHeader(http.StatusNoContent)
}
