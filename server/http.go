package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"video-gateway/config"
	"video-gateway/constant"
	videoHandler "video-gateway/handler"
	"video-gateway/pkg/rabbitmq"
	"video-gateway/repository"
	"video-gateway/service"
)

func RunHttp(cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(setupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Bool("isProduction", cfg.App.Environment == constant.EnvironmentProduction.String()).Send()
	if cfg.App.Environment == constant.EnvironmentProduction.String() {
		gin.SetMode(gin.ReleaseMode)
	}

	// The upload event publisher is optional, the gateway still brokers
	// URLs and records metadata without a message broker.
	var publisher service.UploadEventPublisher
	if cfg.Queue.Host != "" {
		conn, err := config.NewRabbitMQConn(ctx, cfg.Queue)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("NewRabbitMQConn")
		} else {
			publisher = rabbitmq.NewPublisher(conn, cfg.Queue)
		}
	}

	repo := repository.NewRepo(cfg.DB)
	broker := service.NewBroker(cfg.Storage, cfg.MinIOBucket)
	recorder := service.NewRecorder(repo, publisher)

	deps := videoHandler.ServiceDependencies{
		Broker:   broker,
		Recorder: recorder,
	}
	r := NewRouter(ctx, cfg, videoHandler.New(deps))

	if cfg.Server.DisableListener {
		zerolog.Ctx(ctx).Info().Msg("listener disabled, router is served by the embedding host")
		return
	}

	handler := http.Server{
		Handler:           r,
		Addr:              fmt.Sprintf(":%s", cfg.Server.HttpPort),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("start http server")
		if err := handler.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
		}
	}()

	<-ctx.Done()
	zerolog.Ctx(ctx).Info().Msg("shutting down server")
	if err := handler.Shutdown(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
	}

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("server shutdown")
}

// NewRouter wires middleware and routes. Exported so a host that disables
// the listener can mount the engine itself.
func NewRouter(ctx context.Context, cfg *config.Config, h *videoHandler.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(ctx))
	r.Use(cors(cfg.Auth.AllowedOrigins))
	r.Use(errorMapper())

	api := r.Group("/api")
	api.GET("/health", health)
	api.GET("/videos", h.ListVideos)

	gated := api.Group("", accessGate(cfg.Auth.AccessKey))
	gated.POST("/upload-url", h.CreateUploadURL)
	gated.POST("/videos", h.CreateVideo)
	gated.GET("/download-url/:filename", h.CreateDownloadURL)

	return r
}

func health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
	})
}

func setupLogger(cfg *config.Config) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Log to standard output
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	return ctx
}
