package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// DefaultAllowedOrigins are the web-view dev servers allowed by CORS.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:4173",
	"http://localhost:3000",
}

// maxUploadBytes bounds multipart parsing; the ingestor applies the
// configured size limit afterwards.
const maxUploadBytes = 256 << 20

// NewRouter creates the HTTP handler with all routes configured.
func NewRouter(ports *Ports, allowedOrigins []string) (http.Handler, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	h := &handler{ports: ports}
	router := mux.NewRouter()

	router.HandleFunc("/health", h.health).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	// Document
	api.HandleFunc("/document", h.getDocument).Methods(http.MethodGet)
	api.HandleFunc("/document", h.uploadDocument).Methods(http.MethodPost)
	api.HandleFunc("/document", h.clearDocument).Methods(http.MethodDelete)
	api.HandleFunc("/layout", h.getLayout).Methods(http.MethodGet)
	api.HandleFunc("/pages/{page:[0-9]+}/overlays", h.getOverlays).Methods(http.MethodGet)

	// Actions
	api.HandleFunc("/blocks/{id:[0-9]+}/actions", h.getBlockActions).Methods(http.MethodGet)
	api.HandleFunc("/blocks/{id:[0-9]+}/actions", h.dispatchAction).Methods(http.MethodPost)

	// Chat
	api.HandleFunc("/chat", h.getTranscript).Methods(http.MethodGet)
	api.HandleFunc("/chat", h.submit).Methods(http.MethodPost)
	api.HandleFunc("/chat/{id}/copy", h.copyEntry).Methods(http.MethodPost)
	api.HandleFunc("/ask-prompt", h.getAskPrompt).Methods(http.MethodGet)
	api.HandleFunc("/ask-prompt", h.cancelAskPrompt).Methods(http.MethodDelete)

	// Notifications
	api.HandleFunc("/notifications", h.getNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}", h.dismissNotification).Methods(http.MethodDelete)

	// Settings
	api.HandleFunc("/settings", h.getSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", h.updateSettings).Methods(http.MethodPut)
	api.HandleFunc("/settings/reset", h.resetSettings).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		MaxAge: 300,
	})

	return c.Handler(router), nil
}
