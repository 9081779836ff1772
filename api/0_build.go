package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fulldump/lockerdesk/api/apifacilityv1"
	"github.com/fulldump/lockerdesk/metrics"
	"github.com/fulldump/lockerdesk/service"
	"github.com/fulldump/lockerdesk/statics"
)

func Build(s service.Servicer, staticsDir, version string, apiKey, apiSecret string, enableMetrics bool) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		box.SetResponseHeader("Content-Type", "application/json"),
		Authenticate(apiKey, apiSecret),
	)

	apifacilityv1.BuildV1Facility(v1, s).
		WithInterceptors(
			injectServicer(s),
		)

	b.Resource("/v1/*").
		WithActions(box.AnyMethod(func(w http.ResponseWriter) interface{} {
			w.WriteHeader(http.StatusNotImplemented)
			return PrettyError{
				Message:     "not implemented",
				Description: "this endpoint does not exist, please check the documentation",
			}
		}))

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return version
		}))

	if enableMetrics {
		registry := prometheus.NewRegistry()
		registry.MustRegister(metrics.NewCollector(s))
		handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
		b.Resource("/metrics").
			WithActions(
				box.Get(handler.ServeHTTP).WithName("metrics"),
			)
	}

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "LockerDesk"
	spec.Info.Description = "Rent, fill, free and service banks of lockers."
	b.Handle("GET", "/openapi.json", func(r *http.Request) any {

		spec.Servers = []boxopenapi.Server{
			{
				Url: "https://" + r.Host,
			},
			{
				Url: "http://" + r.Host,
			},
		}

		return spec
	})

	// Mount statics
	b.Resource("/*").
		WithActions(
			box.Get(statics.ServeStatics(staticsDir)).WithName("serveStatics"),
		)

	return b
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(apifacilityv1.SetServicer(ctx, s))
		}
	}
}
