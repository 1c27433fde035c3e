package http

import (
	"encoding/json"
	"net/http"

	"uap-profile-service/internal/app"
	"uap-profile-service/internal/domain"
	"uap-profile-service/internal/logger"
)

// RESTHandler serves the path and progress operations as JSON.
type RESTHandler struct {
	service *app.ProfileService
	log     *logger.Logger
}

func NewRESTHandler(service *app.ProfileService, log *logger.Logger) *RESTHandler {
	return &RESTHandler{service: service, log: logger.OrNop(log).With("component", "RESTHandler")}
}

// Register mounts every route on mux.
func (h *RESTHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/catalog", h.catalog)
	mux.HandleFunc("GET /api/path", h.getPath)
	mux.HandleFunc("DELETE /api/path", h.clearPath)
	mux.HandleFunc("POST /api/path/visit", h.visit)
	mux.HandleFunc("POST /api/profile", h.selectProfile)
	mux.HandleFunc("GET /api/progress", h.getStatus)
	mux.HandleFunc("PUT /api/progress", h.setStatus)
	mux.HandleFunc("DELETE /api/progress", h.clearStatus)
	mux.HandleFunc("POST /api/progress/sync", h.sync)
}

type visitRequest struct {
	SectionID string `json:"sectionId"`
}

type visitResponse struct {
	Advanced bool              `json:"advanced"`
	State    *domain.PathState `json:"state,omitempty"`
}

type profileRequest struct {
	ArchetypeID string `json:"archetypeId"`
}

type statusRequest struct {
	ContentType string `json:"contentType"`
	ContentID   string `json:"contentId"`
	Status      string `json:"status"`
}

type statusResponse struct {
	ContentType domain.ContentType   `json:"contentType"`
	ContentID   string               `json:"contentId"`
	Status      domain.ContentStatus `json:"status,omitempty"`
}

type syncResponse struct {
	Copied int `json:"copied"`
}

func (h *RESTHandler) catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Content(r.Context()))
}

func (h *RESTHandler) getPath(w http.ResponseWriter, r *http.Request) {
	scope, ok := requireScope(w, r)
	if !ok {
		return
	}
	state, active := h.service.Path(r.Context(), scope)
	if !active {
		writeJSON(w, http.StatusOK, pathPayload{})
		return
	}
	writeJSON(w, http.StatusOK, pathPayload{Active: true, State: &state})
}

func (h *RESTHandler) clearPath(w http.ResponseWriter, r *http.Request) {
	scope, ok := requireScope(w, r)
	if !ok {
		return
	}
	if err := h.service.ClearPath(r.Context(), scope); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RESTHandler) visit(w http.ResponseWriter, r *http.Request) {
	scope, ok := requireScope(w, r)
	if !ok {
		return
	}
	var req visitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SectionID == "" {
		writeError(w, http.StatusBadRequest, "sectionId is required")
		return
	}
	state, advanced, err := h.service.VisitSection(r.Context(), scope, req.SectionID)
	if err != nil {
		h.fail(w, err)
		return
	}
	resp := visitResponse{Advanced: advanced}
	if !state.Empty() {
		resp.State = &state
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RESTHandler) selectProfile(w http.ResponseWriter, r *http.Request) {
	scope, ok := requireScope(w, r)
	if !ok {
		return
	}
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ArchetypeID == "" {
		writeError(w, http.StatusBadRequest, "archetypeId is required")
		return
	}
	state, err := h.service.SelectProfile(r.Context(), scope, req.ArchetypeID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pathPayload{Active: true, State: &state})
}

func (h *RESTHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	scope, ok := requireScope(w, r)
	if !ok {
		return
	}
	ct, err := domain.ParseContentType(r.URL.Query().Get("contentType"))
	if err != nil {
		h.fail(w, err)
		return
	}
	id := r.URL.Query().Get("contentId")
	resp := statusResponse{ContentType: ct, ContentID: id}
	if status, ok := h.service.Gateway(scope).ContentStatus(r.Context(), ct, id); ok {
		resp.Status = status
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RESTHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	scope, ok := requireScope(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ContentID == "" {
		writeError(w, http.StatusBadRequest, "contentType and contentId are required")
		return
	}
	err := h.service.SetStatus(r.Context(), scope, domain.ContentType(req.ContentType), req.ContentID, domain.ContentStatus(req.Status))
	if err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RESTHandler) clearStatus(w http.ResponseWriter, r *http.Request) {
	scope, ok := requireScope(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	if q.Get("contentId") == "" {
		writeError(w, http.StatusBadRequest, "contentId is required")
		return
	}
	if err := h.service.ClearStatus(r.Context(), scope, domain.ContentType(q.Get("contentType")), q.Get("contentId")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RESTHandler) sync(w http.ResponseWriter, r *http.Request) {
	scope, ok := requireScope(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{Copied: h.service.Gateway(scope).HydrateStatuses(r.Context())})
}

func (h *RESTHandler) fail(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.log.Error("request failed", "error", err)
	}
	writeError(w, code, err.Error())
}

func requireScope(w http.ResponseWriter, r *http.Request) (string, bool) {
	scope := deviceID(r)
	if scope == "" {
		writeError(w, http.StatusBadRequest, domain.ErrMissingScope.Error())
		return "", false
	}
	return scope, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorPayload{Message: msg})
}
