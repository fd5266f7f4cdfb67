package telemetry

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter exposes health, prometheus metrics, the websocket event feed and
// the cycle board.
func NewRouter(hub *Hub, board *Board) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	if hub != nil {
		router.Handle("/ws", hub)
	}
	if board != nil {
		router.HandleFunc("/cycles", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(board.Statuses())
		}).Methods(http.MethodGet)
	}
	return router
}
