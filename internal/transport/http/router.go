package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"study-session-service/internal/app"
	"study-session-service/internal/domain"
)

// NewRouter wires the REST and websocket endpoints.
func NewRouter(service *app.SessionService) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	api := &apiHandler{service: service}
	router.HandleFunc("/api/phases/{phase}/eligibility", api.eligibility).Methods(http.MethodGet)

	ws := NewWSHandler(service)
	router.HandleFunc("/ws/session", ws.ServeSession)
	return router
}

type apiHandler struct {
	service *app.SessionService
}

// eligibility evaluates the phase gate for the given participant and returns
// the verdict plus the prerequisite checklist.
func (h *apiHandler) eligibility(w http.ResponseWriter, r *http.Request) {
	phase, err := domain.ParsePhase(mux.Vars(r)["phase"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.CheckEligibility(r.Context(), r.URL.Query().Get("userId"), phase)
	if err != nil {
		log.Printf("eligibility check failed: %v", err)
		http.Error(w, "eligibility check failed", statusFromError(err))
		return
	}
	writeJSON(w, result)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownPhase):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrParticipantNotFound), errors.Is(err, domain.ErrContentNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
