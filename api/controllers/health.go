package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/lendom/storefront-backend/api/responses"
	"github.com/lendom/storefront-backend/pkg/config"
	pkgerrors "github.com/lendom/storefront-backend/pkg/errors"
	"github.com/lendom/storefront-backend/pkg/logger"
)

const envHeader = "X-Lendom-Env"

// Pinger is the readiness surface shared by the backing stores.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyChecker is the readiness surface of the catalog.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the database, redis and catalog all
// answer. Failing components are named in the error details.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP Pinger, redisP Pinger, catalog ReadyChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		var combined error
		failing := []string{}
		check := func(name string, err error) {
			if err != nil {
				combined = multierr.Append(combined, err)
				failing = append(failing, name)
			}
		}

		if dbP != nil {
			check("db", dbP.Ping(r.Context()))
		}
		if redisP != nil {
			check("redis", redisP.Ping(r.Context()))
		}
		if catalog != nil {
			check("catalog", catalog.Ready(r.Context()))
		}

		if combined != nil {
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "not ready").
				WithDetails(map[string]any{"failing": failing})
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
