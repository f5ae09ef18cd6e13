package export

import "github.com/go-chi/chi/v5"

// Routes serves stored configurations. They are public: the id is the capability.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/{configID}", h.GetConfig)

	return r
}

/*
Export and Finish are registered on the wizard router, behind the session middleware.

- GET: /wizard/export?format=yaml|json  -> live session rendered as a Monika config
- POST: /wizard/finish                  -> store, cache and announce; resp : FinishResponse
- GET: /configs/{configID}              -> StoredConfig
- GET: /configs/{configID}?format=yaml  -> bare document
*/
