package health

import (
	"context"
	"log/slog"

	"github.com/hardenlab/csrfkit/core/handler"
	"github.com/hardenlab/csrfkit/core/logger"
	"github.com/hardenlab/csrfkit/core/response"
)

// Readiness runs every dependency check and answers "READY" only when all of
// them pass. A single failing check turns the response into 503 Service
// Unavailable and logs the cause.
//
// The checks share the func(context.Context) error shape returned by the
// database connectors, so wiring them is direct:
//
//	ready := health.Readiness[*app.Context](
//		log,
//		pg.Healthcheck(pool),
//		redis.Healthcheck(client),
//	)
//	router.Get("/health/ready", ready)
func Readiness[C handler.Context](log *slog.Logger, fn ...func(context.Context) error) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		for _, f := range fn {
			if err := f(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Error(err))
				return response.Error(response.ErrServiceUnavailable)
			}
		}

		return response.String("READY")
	}
}
