package export

import (
	"net/http"
	middle "probe-wizard/internals/middleware"
	"probe-wizard/pkg/apperror"
	"probe-wizard/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Export renders the live session: GET /wizard/export?format=yaml|json
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sess, ok := middle.SessionFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}

	body, contentType, err := h.service.Render(ctx, sess.SessionID, r.URL.Query().Get("format"))
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteRaw(w, http.StatusOK, contentType, body)
}

func (h *Handler) Finish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sess, ok := middle.SessionFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}

	stored, err := h.service.Finish(ctx, sess.SessionID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, reqID, utils.ConfigStored, FinishResponse{
		ConfigID:  stored.ID.String(),
		CreatedAt: stored.CreatedAt,
		Location:  "/api/v1/configs/" + stored.ID.String(),
	})
}

// GetConfig returns the stored record, or the bare document when a format is asked for.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	configID, err := uuid.Parse(chi.URLParam(r, "configID"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "invalid config id")
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" {
		body, contentType, err := h.service.RenderStored(ctx, configID, format)
		if err != nil {
			utils.FromAppError(w, reqID, err)
			return
		}
		utils.WriteRaw(w, http.StatusOK, contentType, body)
		return
	}

	stored, err := h.service.Get(ctx, configID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, utils.ConfigRetrieved, stored)
}
