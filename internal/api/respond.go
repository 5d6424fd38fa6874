package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/render"
)

var errEmptyBody = errors.New("empty request body")

func respond(w http.ResponseWriter, r *http.Request, status int, payload any) {
	render.Status(r, status)
	render.JSON(w, r, payload)
}

// respondMessage writes {"message": msg}.
func respondMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	respond(w, r, status, render.M{"message": msg})
}

// respondError writes {"error": msg}.
func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	respond(w, r, status, render.M{"error": msg})
}

// decodeJSON reads a JSON body into dst. An empty body is reported as
// errEmptyBody.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// nonNil keeps list responses encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
