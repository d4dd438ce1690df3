package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"ouroz/internal/http/handlers"
	"ouroz/internal/infra"
	"ouroz/internal/infra/geoip"
	"ouroz/internal/middleware"
)

// Options carries the cross-cutting settings the router needs.
type Options struct {
	Logger          infra.Logger
	CORSOrigins     []string
	DefaultLocale   string
	RateLimitPerMin int
	Locator         geoip.Locator
	TrustedProxies  middleware.TrustedProxies
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP(opts.TrustedProxies),
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)
	r.Get("/v1/stats/generations", app.GenerationStats)

	r.Route("/api/ai", func(r chi.Router) {
		r.Use(
			middleware.CORS(opts.CORSOrigins),
			middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
			middleware.I18N(opts.DefaultLocale, opts.Locator),
		)
		r.Post("/generate-image", app.GenerateImage)
		r.Post("/edit-image", app.EditImage)
		r.Post("/generate-video", app.GenerateVideo)
		r.Post("/grounded-query", app.GroundedQuery)
		r.Post("/transcribe", app.Transcribe)
		r.Post("/negotiation-advice", app.NegotiationAdvice)
		r.Post("/analyze-document", app.AnalyzeDocument)
		r.Post("/analyze-visual", app.AnalyzeVisual)
		r.Post("/text-to-speech", app.TextToSpeech)
	})

	return otelhttp.NewHandler(r, "ouroz-ai",
		otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
			return req.Method + " " + req.URL.Path
		}),
	)
}
