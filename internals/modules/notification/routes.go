package notification

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListForms)
	r.Get("/{name}", h.GetForm)

	return r
}

/*
- GET: /notification-forms  -> channel catalog in display order
	req auth : false
	resp : []Form

- GET: /notification-forms/{name} -> one channel form
	req auth : false
	resp : Form
*/
