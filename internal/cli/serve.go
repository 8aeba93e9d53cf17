package cli

import (
	"context"
	"net/http"
	"time"

	"logreader-backend/config"
	_ "logreader-backend/docs"
	"logreader-backend/internal/controller"
	"logreader-backend/internal/kafka"
	"logreader-backend/internal/logfile"
	"logreader-backend/internal/parser"
	"logreader-backend/internal/reader"
	"logreader-backend/internal/repository"
	"logreader-backend/internal/scheduler"
	"logreader-backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
)

// @title           Log Reader API
// @version         1.0
// @description     Query, mark as read and delete entries of application log files.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @schemes   http

// @tag.name         logs
// @tag.description  Log entry queries and mutations

// @tag.name         files
// @tag.description  Log file listing and maintenance

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run the scheduled collapse job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				a.cfg.Server.Port = port
			}
			return runServer(a.cfg)
		},
	}
	cmd.Flags().String("port", "", "HTTP port (env SERVER_PORT)")
	return cmd
}

func newApp(cfg *config.Config) *fx.App {
	return fx.New(
		fx.NopLogger,
		// Core Dependencies
		fx.Supply(cfg),
		// Infrastructure Dependencies
		fx.Provide(
			NewReadStateStore,
			NewLevelable,
			NewGinEngine,
			parser.NewLaravelLogParser,
			logfile.NewStore,
			fx.Annotate(reader.NewReader, fx.As(new(repository.LogRepository))),
			kafka.ProvideAuditPublisher,
			service.NewLogReaderService,
			controller.NewLogController,
		),
		fx.Invoke(
			RegisterAPIRoutes,
			RegisterScheduler,
		),
	)
}

func runServer(cfg *config.Config) error {
	fxApp := newApp(cfg)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()
	if err := fxApp.Start(startCtx); err != nil {
		log.Error().Err(err).Msg("Failed to start application")
		return err
	}
	<-fxApp.Done()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := fxApp.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
		return err
	}
	return nil
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	logController *controller.LogController,
) {
	controller.RegisterLogRoutes(router, logController)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

func RegisterScheduler(lc fx.Lifecycle, cfg *config.Config, logReaderSvc service.LogReaderService) error {
	_, err := scheduler.NewScheduler(lc, cfg, logReaderSvc)
	return err
}
