package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
)

const apiVersion = "1.0"

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, StatusResponse{
		Message: "Studivio Backend API is running!",
		Status:  "OK",
		Version: apiVersion,
	})
}

// handleEndpoints describes the ingestion routes and lists every mounted
// route.
func (s *Server) handleEndpoints(w http.ResponseWriter, r *http.Request) {
	var routes []string
	_ = chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if method == http.MethodOptions {
			return nil
		}
		routes = append(routes, method+" "+strings.TrimSuffix(route, "/*"))
		return nil
	})
	sort.Strings(routes)
	respond(w, r, http.StatusOK, map[string]any{
		"youtube_summariser": "/summariser/youtube (POST, JSON: {url or video_id})",
		"pdf_summariser":     "/summariser/pdf (POST, form-data: file)",
		"audio_transcriber":  "/whisper/audio (POST, form-data: file)",
		"routes":             routes,
	})
}
