package wizard

import "github.com/go-chi/chi/v5"

// Routes are mounted behind the session middleware.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetSession)
	r.Post("/back", h.Back)

	r.Route("/web-form", func(r chi.Router) {
		r.Get("/", h.GetWebForm)
		r.Put("/url", h.SetURL)
		r.Post("/fields", h.AddField)
		r.Patch("/fields/{fieldID}", h.UpdateField)
		r.Delete("/fields/{fieldID}", h.RemoveField)
		r.Post("/preview", h.PreviewWebForm)
		r.Post("/submit", h.SubmitWebForm)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.ListNotifications)
		r.Post("/", h.AddNotification)
		r.Post("/test", h.TestAllNotifications)
		r.Post("/finish", h.FinishNotifications)
		r.Delete("/{notificationID}", h.RemoveNotification)
		r.Post("/{notificationID}/test", h.TestNotification)
	})

	return r
}

/*
- POST: /sessions -> start a wizard session (public, mounted by the app router)
	resp : CreateSessionResponse

- GET: /wizard -> current step, probes and notifications
- GET: /wizard/web-form -> draft, seeded from the probes on first visit
- PUT: /wizard/web-form/url            body : SetURLRequest
- POST: /wizard/web-form/fields        -> append an empty field
- PATCH: /wizard/web-form/fields/{id}  body : UpdateFieldRequest
- DELETE: /wizard/web-form/fields/{id}
- POST: /wizard/web-form/preview       -> send the draft request once
- POST: /wizard/web-form/submit        -> replace probes, go to notifications
- POST: /wizard/back

- GET|POST: /wizard/notifications      body : AddNotificationRequest
- DELETE: /wizard/notifications/{id}
- POST: /wizard/notifications/{id}/test
- POST: /wizard/notifications/test
- POST: /wizard/notifications/finish   -> go to review
*/
