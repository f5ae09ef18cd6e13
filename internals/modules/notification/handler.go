package notification

import (
	"net/http"
	"probe-wizard/pkg/apperror"
	"probe-wizard/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) ListForms(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	utils.WriteJSON(w, http.StatusOK, reqID, "notification forms retrieved", Forms())
}

func (h *Handler) GetForm(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	name := chi.URLParam(r, "name")
	form, ok := Lookup(name)
	if !ok {
		utils.WriteError(w, http.StatusNotFound, reqID, apperror.NotFound, "unknown notification channel")
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "notification form retrieved", form)
}
