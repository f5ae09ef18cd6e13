package wizard

import (
	"encoding/json"
	"errors"
	"net/http"
	middle "probe-wizard/internals/middleware"
	"probe-wizard/pkg/apperror"
	"probe-wizard/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service      *Service
	validator    *validator.Validate
	maxBodyBytes int64
}

func NewHandler(service *Service, validator *validator.Validate, maxBodyBytes int64) *Handler {
	return &Handler{
		service:      service,
		validator:    validator,
		maxBodyBytes: maxBodyBytes,
	}
}

// sessionID pulls the session identity placed by the session middleware.
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	reqID := middleware.GetReqID(r.Context())
	sess, ok := middle.SessionFromContext(r.Context())
	if !ok || sess.SessionID == "" {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return "", false
	}
	return sess.SessionID, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	reqID := middleware.GetReqID(r.Context())

	// decode request body
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteError(w, http.StatusRequestEntityTooLarge, reqID, apperror.InvalidInput, "request body too large")
			return false
		}
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "malformed request body")
		return false
	}

	// validate request body
	if err := h.validator.Struct(dst); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, err.Error())
		return false
	}
	return true
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	created, err := h.service.CreateSession(ctx)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, reqID, utils.SessionCreated, CreateSessionResponse{
		SessionID: created.ID,
		Token:     created.Token,
		Step:      created.Step,
		Route:     created.Step.Route(),
		ExpiresAt: created.ExpiresAt,
	})
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	sess, err := h.service.GetSession(ctx, sid)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, utils.SessionRetrieved, SessionResponse{
		SessionID:     sess.ID,
		Step:          sess.Step,
		Route:         sess.Step.Route(),
		Probes:        sess.Probes,
		Notifications: sess.Notifications,
		UpdatedAt:     sess.UpdatedAt,
	})
}

func (h *Handler) GetWebForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	form, err := h.service.GetWebForm(ctx, sid)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, utils.WebFormRetrieved, form)
}

func (h *Handler) SetURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req SetURLRequest
	if !h.decode(w, r, &req) {
		return
	}

	form, err := h.service.SetURL(ctx, sid, req.URL)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, utils.WebFormUpdated, form)
}

func (h *Handler) AddField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	field, err := h.service.AddField(ctx, sid)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, reqID, utils.WebFormUpdated, field)
}

func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req UpdateFieldRequest
	if !h.decode(w, r, &req) {
		return
	}

	field, err := h.service.UpdateField(ctx, sid, chi.URLParam(r, "fieldID"), req.Key, req.Value)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, utils.WebFormUpdated, field)
}

func (h *Handler) RemoveField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveField(ctx, sid, chi.URLParam(r, "fieldID")); err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON[any](w, http.StatusOK, reqID, utils.WebFormUpdated, nil)
}

func (h *Handler) SubmitWebForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	res, err := h.service.SubmitWebForm(ctx, sid)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, utils.WebFormSubmitted, SubmitWebFormResponse{
		Probe: res.Probe,
		Next:  toNavigationResponse(res.Next),
	})
}

func (h *Handler) PreviewWebForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	res, err := h.service.PreviewWebForm(ctx, sid)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "probe preview completed", res)
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	nav, err := h.service.Back(ctx, sid)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "navigated back", toNavigationResponse(nav))
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListNotifications(ctx, sid)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "notifications retrieved", list)
}

func (h *Handler) AddNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req AddNotificationRequest
	if !h.decode(w, r, &req) {
		return
	}

	n, err := h.service.AddNotification(ctx, sid, req.Type, req.Data)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, reqID, utils.NotificationAdded, n)
}

func (h *Handler) RemoveNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveNotification(ctx, sid, chi.URLParam(r, "notificationID")); err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON[any](w, http.StatusOK, reqID, utils.NotificationRemoved, nil)
}

func (h *Handler) TestNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	res, err := h.service.TestNotification(ctx, sid, chi.URLParam(r, "notificationID"))
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "test notification sent", toTestResponse(res))
}

func (h *Handler) TestAllNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	results, err := h.service.TestAllNotifications(ctx, sid)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	out := make([]NotificationTestResponse, 0, len(results))
	for _, res := range results {
		out = append(out, toTestResponse(res))
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "test notifications sent", out)
}

func (h *Handler) FinishNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	nav, err := h.service.FinishNotifications(ctx, sid)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "notifications saved", toNavigationResponse(nav))
}
