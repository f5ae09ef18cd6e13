package app

import (
	"context"
	"net/http"
	middle "probe-wizard/internals/middleware"
	"probe-wizard/internals/modules/export"
	"probe-wizard/internals/modules/notification"
	"probe-wizard/internals/modules/wizard"
	"probe-wizard/pkg/apperror"
	"probe-wizard/pkg/utils"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(c *Container) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middle.Logger(c.Logger))
	if c.Config.Metrics.Enabled {
		r.Use(middle.Metrics(c.Metrics))
	}
	r.Use(middleware.Timeout(c.Config.Server.RequestTimeout))

	r.Get("/healthz", c.healthz)
	if c.Config.Metrics.Enabled {
		r.Handle(c.Config.Metrics.Path, c.Metrics.Handler())
	}

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Mount("/notification-forms", notification.Routes(c.notificationHandler))
		v1.Mount("/configs", export.Routes(c.exportHandler))

		v1.Post("/sessions", c.wizardHandler.CreateSession)

		// everything under /wizard acts on the session named by the bearer token
		v1.Route("/wizard", func(wr chi.Router) {
			wr.Use(c.sessionMW.Handle)
			wr.Get("/export", c.exportHandler.Export)
			wr.Post("/finish", c.exportHandler.Finish)
			wr.Mount("/", wizard.Routes(c.wizardHandler))
		})
	})

	return r
}

func (c *Container) healthz(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := c.Health(ctx); err != nil {
		c.Logger.Warn().Err(err).Msg("health check failed")
		utils.WriteError(w, http.StatusServiceUnavailable, reqID, apperror.Dependency, "dependency unavailable")
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "ok", map[string]string{"status": "up"})
}
