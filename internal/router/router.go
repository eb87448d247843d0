package router

import (
	"net/http"
	"strings"
	"time"

	_ "daily-medicine-reminder/docs"
	"daily-medicine-reminder/internal/adapters/storage"
	"daily-medicine-reminder/internal/domain/adherence"
	"daily-medicine-reminder/internal/domain/doses"
	"daily-medicine-reminder/internal/domain/medicines"
	"daily-medicine-reminder/internal/middleware"
	"daily-medicine-reminder/internal/platform/clock"
	"daily-medicine-reminder/internal/platform/logger"
	"daily-medicine-reminder/internal/platform/metrics"
	"daily-medicine-reminder/internal/platform/respond"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

const healthPath = "/api/health"

type Options struct {
	// Opcional: si no viene, storage in-memory (modo dev).
	Repos *storage.Repositories

	Clock   *clock.Clock       // nil => UTC
	Logger  logger.Logger      // nil => Nop
	Metrics *metrics.Collector // nil => sin /metrics ni contadores

	MetricsPath string // default /metrics

	// RateLimit nil => sin límite.
	RateLimit *middleware.RateLimitOptions

	ServiceName  string
	Environment  string
	MaxBodyBytes int64 // default 10KB
}

type healthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.New(time.UTC)
	}
	repos := opts.Repos
	if repos == nil {
		repos = storage.Memory()
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "daily-medicine-reminder"
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 10 << 10
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Tracing(opts.ServiceName))
	r.Use(middleware.Metrics(opts.Metrics))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusNotFound, "Route not found")
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, opts.MetricsPath, opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Services por módulo
	mat := doses.NewMaterializer(repos.Doses, opts.Metrics)
	medicinesSvc := medicines.NewService(repos.Medicines, mat, clk, opts.Metrics)
	dosesSvc := doses.NewService(repos.Doses, clk, opts.Metrics)
	adherenceSvc := adherence.NewService(repos.Adherence, clk)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.SecurityHeaders)
		api.Use(chimw.RequestSize(opts.MaxBodyBytes))
		if rl := opts.RateLimit; rl != nil {
			limited := *rl
			if limited.Skip == nil {
				limited.Skip = func(r *http.Request) bool { return strings.HasPrefix(r.URL.Path, healthPath) }
			}
			api.Use(middleware.RateLimit(limited))
		}

		api.Get("/health", healthHandler(clk, opts.Environment))

		// Rutas por módulo
		medicines.RegisterRoutes(api, medicinesSvc, log)
		doses.RegisterRoutes(api, dosesSvc, log)
		adherence.RegisterRoutes(api, adherenceSvc, log)
	})

	return r
}

// healthHandler godoc
// @Summary Estado del servicio
// @Tags system
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health [get]
func healthHandler(clk *clock.Clock, env string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, healthResponse{
			Status:      "healthy",
			Timestamp:   clk.Now().UTC(),
			Environment: env,
		})
	}
}
