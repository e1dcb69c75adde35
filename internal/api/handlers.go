// Package api exposes HTTP handlers for the signup service.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"example.com/signup/internal/domain"
)

const (
	activitiesPath  = "/activities"
	staticIndexPath = "/static/index.html"

	actionSignup     = "signup"
	actionUnregister = "unregister"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	logger  *zap.Logger
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.root)
	mux.HandleFunc(activitiesPath, h.activities)
	mux.HandleFunc(activitiesPath+"/", h.activityByName)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// root sends browsers to the bundled frontend. Every other unmatched path is a 404.
func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	http.Redirect(w, r, staticIndexPath, http.StatusTemporaryRedirect)
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	activities, err := h.service.ListActivities(r.Context())
	if err != nil {
		h.serverError(w, "list activities failed", err)
		return
	}

	resp := make(ListActivitiesResponse, len(activities))
	for name, activity := range activities {
		resp[name] = toActivityView(activity)
	}
	writeJSON(w, http.StatusOK, resp)
}

// activityByName dispatches /activities/{name} and /activities/{name}/{action}.
func (h *Handler) activityByName(w http.ResponseWriter, r *http.Request) {
	name, action := splitActivityPath(strings.TrimPrefix(r.URL.Path, activitiesPath+"/"))
	if strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing activity name")
		return
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.getActivity(w, r, name)
	case actionSignup:
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.signup(w, r, name)
	case actionUnregister:
		if r.Method != http.MethodPost && r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.unregister(w, r, name)
	}
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request, name string) {
	activity, err := h.service.GetActivity(r.Context(), name)
	if err != nil {
		h.domainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ActivityDetailResponse{
		Name:         activity.Name,
		ActivityView: toActivityView(*activity),
	})
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request, name string) {
	email := r.URL.Query().Get("email")
	message, err := h.service.Signup(r.Context(), name, email)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.logger.Info("participant signed up", zap.String("activity", name), zap.String("email", email))
	writeJSON(w, http.StatusOK, MessageResponse{Message: message})
}

func (h *Handler) unregister(w http.ResponseWriter, r *http.Request, name string) {
	email := r.URL.Query().Get("email")
	message, err := h.service.Unregister(r.Context(), name, email)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.logger.Info("participant unregistered", zap.String("activity", name), zap.String("email", email))
	writeJSON(w, http.StatusOK, MessageResponse{Message: message})
}

func (h *Handler) domainError(w http.ResponseWriter, err error) {
	code := domain.ErrorCode(err)
	switch code {
	case domain.CodeNotFound:
		writeError(w, http.StatusNotFound, code, "Activity not found")
	case domain.CodeNotRegistered:
		writeError(w, http.StatusNotFound, code, "Student is not signed up for this activity")
	case domain.CodeAlreadyRegistered:
		writeError(w, http.StatusConflict, code, "Student is already signed up for this activity")
	case domain.CodeActivityFull:
		writeError(w, http.StatusConflict, code, "Activity is full")
	case domain.CodeValidationFailed:
		writeError(w, http.StatusBadRequest, code, "email is required")
	default:
		h.serverError(w, "directory operation failed", err)
	}
}

// serverError logs err and answers with a generic body so internals do not leak.
func (h *Handler) serverError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, domain.CodeServerError, "internal server error")
}

// splitActivityPath separates a trailing signup/unregister action from the activity name.
func splitActivityPath(rest string) (name, action string) {
	idx := strings.LastIndex(rest, "/")
	if idx < 0 {
		return rest, ""
	}
	switch tail := rest[idx+1:]; tail {
	case actionSignup, actionUnregister:
		return rest[:idx], tail
	default:
		return rest, ""
	}
}

// ActivityView is the wire form of an activity record.
type ActivityView struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// ListActivitiesResponse maps activity name to its record.
type ListActivitiesResponse map[string]ActivityView

// ActivityDetailResponse is returned by GET /activities/{name}.
type ActivityDetailResponse struct {
	Name string `json:"name"`
	ActivityView
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toActivityView(activity domain.Activity) ActivityView {
	participants := activity.Participants
	if participants == nil {
		participants = []string{}
	}
	return ActivityView{
		Description:     activity.Description,
		Schedule:        activity.Schedule,
		MaxParticipants: activity.MaxParticipants,
		Participants:    participants,
	}
}
