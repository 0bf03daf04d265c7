package pkg

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const SocketPath = "/socket"

type verifyTokenRequest struct {
	Token string `json:"token"`
}

// NewRouter mounts the socket endpoint and the plain HTTP endpoints behind
// CORS and request instrumentation.
func NewRouter(manager *Manager, config *Config) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/", HomeHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/test", APITestHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/health", HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/verify-token", VerifyTokenHandler).
		Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc(SocketPath, manager.SocketHandler).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins(config.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	return promhttp.InstrumentHandlerInFlight(PairingServerInFlightGauge,
		promhttp.InstrumentHandlerCounter(PairingServerRequestsCounter,
			cors(router)))
}

func HomeHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "Pairing server is running",
		"socket":   SocketPath,
		"api_test": "/api/test",
	})
}

func APITestHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "API is working"})
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
}

// VerifyTokenHandler accepts any non-empty token and echoes it back. It is
// not tied to sessions or matchmaking.
func VerifyTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req verifyTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debug("Failed to decode verify-token request: ", err)
	}

	if strings.TrimSpace(req.Token) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No token provided"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Token received",
		"token":   req.Token,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode response: ", err)
	}
}
