package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assessment-service/internal/config"
	"assessment-service/internal/infra/memory"
	pgstore "assessment-service/internal/infra/postgres"
	redisstore "assessment-service/internal/infra/redis"
	"assessment-service/internal/notify"
	"assessment-service/internal/report"
	"assessment-service/internal/telemetry"
	transport "assessment-service/internal/transport/http"
	"assessment-service/internal/wizard"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the assessment wizard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.TTLDuration(cfg.Wizard.SessionTTL, 30*time.Minute)
	if cfg.Redis.TTL != "" {
		sessionTTL = config.TTLDuration(cfg.Redis.TTL, sessionTTL)
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.DefinitionLoader = memory.NewStaticDefinitionLoader(sampleWizards())
	if pool != nil {
		loader = pgstore.NewDefinitionLoader(pool)
	}

	definitionTTL := config.TTLDuration(cfg.Wizard.DefinitionTTL, 10*time.Minute)
	var definitions wizard.DefinitionRepository
	if redisClient != nil {
		definitions = redisstore.NewDefinitionRepository(redisClient, loader, definitionTTL)
	} else {
		definitions = memory.NewDefinitionRepository(loader, definitionTTL)
	}

	var store wizard.SessionStore
	if redisClient != nil {
		store = redisstore.NewSessionStore(redisClient, sessionTTL)
	} else {
		store = memory.NewSessionStore()
	}

	var responses wizard.ResponseRepository = memory.NewResponseRepository()
	if pool != nil {
		responses = pgstore.NewResponseRepository(pool)
	}

	var generator report.Generator = report.Disabled{}
	if cfg.OpenAI.APIKey != "" {
		generator, err = report.NewOpenAIGenerator(report.OpenAIConfig{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Temperature: cfg.OpenAI.Temperature,
		})
		if err != nil {
			return err
		}
	} else {
		log.Printf("no OpenAI key configured, reports use the deterministic fallback")
	}

	service := wizard.NewService(store, definitions, responses, generator,
		wizard.WithNotifier(notify.LogNotifier{}),
		wizard.WithTelemetry(telemetry.LogSink{}),
	)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting assessment service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
