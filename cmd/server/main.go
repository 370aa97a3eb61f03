package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	docs "github.com/Kasamvinay/phishformer/docs"
	"github.com/Kasamvinay/phishformer/internal/config"
	api "github.com/Kasamvinay/phishformer/internal/http"
	"github.com/Kasamvinay/phishformer/internal/log"
	"github.com/Kasamvinay/phishformer/internal/metrics"
	"github.com/Kasamvinay/phishformer/internal/ml"
	"github.com/Kasamvinay/phishformer/internal/oauth"
	"github.com/Kasamvinay/phishformer/internal/queue"
	"github.com/Kasamvinay/phishformer/internal/repo"
)

// @title Phishformer API
// @version 0.1.0
// @description Authentication, profile and scan-history API for the phishing URL detector.
// @schemes http https
// @BasePath /
func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Prod)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.JWTSecret == "" {
		// sessions cannot be minted or verified without it
		logger.Fatal("missing required signing secret")
	}

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	var rds *repo.Redis
	if cfg.RedisAddr != "" {
		rds = repo.NewRedis(cfg.RedisAddr)
		if err := rds.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, prediction cache disabled", zap.Error(err))
			rds = nil
		} else {
			defer rds.Close()
		}
	}

	pub := queue.NewNoop()
	if cfg.RabbitURL != "" {
		p, err := queue.NewRabbit(cfg.RabbitURL, queue.Exchange)
		if err != nil {
			logger.Warn("rabbit unreachable, events disabled", zap.Error(err))
		} else {
			pub = p
		}
	}
	defer pub.Close()

	var google *oauth.GoogleOAuth
	if cfg.GoogleConfigured() {
		google = oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
	} else {
		logger.Warn("google oauth not configured")
	}

	mlc := ml.NewClient(cfg.MLBaseURL, time.Duration(cfg.MLTimeoutSeconds)*time.Second, rds)

	docs.SwaggerInfo.BasePath = "/"

	h := api.NewHandler(store, cfg, google, mlc, pub)
	r := api.NewRouter(h)

	// the browser frontend is a separate origin and sends credentials
	corsMW := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: corsMW.Handler(r),
	}

	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.ListenAndServe() }()

	logger.Info("phishformer listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
