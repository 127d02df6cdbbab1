package router

import (
	"net/http"

	"tamagitchi/internal/domain/care"
	"tamagitchi/internal/middleware"
	"tamagitchi/internal/platform/config"
	"tamagitchi/internal/platform/logger"
	"tamagitchi/internal/platform/metrics"
	"tamagitchi/internal/ports/auth"

	_ "tamagitchi/docs" // registra el spec de swagger

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Config  *config.Config
	Logger  logger.Logger
	Metrics *metrics.Metrics

	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Care es obligatorio: el ciclo de vida de actores y scheduler es de main.
	Care *care.Service
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg, _ = config.Default()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", opts.Metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	partition := middleware.Partition(cfg.Partition.Header, cfg.Partition.Default, log)
	care.RegisterRoutes(r, opts.Care, partition)

	return r
}
