package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/yisuchen/bananaguava/docs/swagger"
	"github.com/yisuchen/bananaguava/internal/store"
	"github.com/yisuchen/bananaguava/internal/submit"
	"github.com/yisuchen/bananaguava/internal/vocab"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	PromptStore *store.PromptStore
	Vocab       *vocab.Table
	Reporter    *vocab.Reporter
	Submit      *submit.Service
	Snapshot    Refresher

	// AllowedOrigins configures CORS for the browser gallery. Empty means
	// allow any origin, matching the original proxy's behavior.
	AllowedOrigins []string
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	r.Get("/api/docs/*", httpSwagger.WrapHandler)

	r.Mount("/api/v1", newAPIRouter(deps))

	return r
}

// newAPIRouter creates the chi sub-router for /api/v1.
// All routes return application/json.
func newAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(jsonContentType)

	registerPromptRoutes(r, deps.PromptStore, deps.Vocab)
	registerMetaRoutes(r, deps.PromptStore)
	registerVocabRoutes(r, deps.Vocab)
	registerSubmitRoutes(r, deps.Submit, deps.Reporter)
	registerSnapshotRoutes(r, deps.Snapshot)

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
