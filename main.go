package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finlit-platform/auth"
	"finlit-platform/challenge"
	"finlit-platform/config"
	"finlit-platform/database"
	"finlit-platform/handlers"
	"finlit-platform/logging"
	"finlit-platform/middleware"
	"finlit-platform/models"
	"finlit-platform/prefs"
	"finlit-platform/provider"
	"finlit-platform/templates"

	"github.com/gorilla/sessions"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// challengeTTL is how long an unanswered challenge page stays answerable.
const challengeTTL = time.Hour

var (
	// Global flags
	verbose bool
	envFile string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "finlit",
	Short: "aurora - gamified financial literacy dashboard",
	Long: `Serves the aurora dashboard: sign in, index and allocation charts,
the daily challenge card, the learn catalog and the friends leaderboard.

Configuration comes from the environment and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if verbose {
			cfg.LogLevel = "debug"
		}
		logger, err = logging.New(cfg.LogLevel, cfg.LogDev)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the account and session tables",
	RunE:  runMigrate,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load if present")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openStore(ctx context.Context) (auth.Store, *sql.DB, error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("using in-memory account store; accounts are lost on restart")
		return auth.NewMemoryStore(), nil, nil
	}
	db, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := database.InitDB(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init schema: %w", err)
	}
	return auth.NewPostgresStore(db), db, nil
}

func openProvider() (provider.DataProvider, error) {
	if cfg.DataFile == "" {
		return provider.NewStatic(provider.Default()), nil
	}
	p, err := provider.LoadFile(cfg.DataFile)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded dashboard data", zap.String("file", cfg.DataFile))
	return p, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db, err := openStore(ctx)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	data, err := openProvider()
	if err != nil {
		return err
	}
	pages, err := templates.Parse()
	if err != nil {
		return err
	}

	svc := auth.NewService(store, auth.Options{
		Secret:     []byte(cfg.JWTSecret),
		SessionTTL: cfg.SessionTTL,
		Logger:     logger.Named("auth"),
	})

	cookies := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	challenges := challenge.NewRegistry(challengeTTL, nil)
	env := &handlers.Env{
		Auth:        svc,
		Cookies:     cookies,
		Data:        data,
		Prefs:       prefs.NewStore(models.Preferences{}),
		Challenges:  challenges,
		Pages:       pages,
		Logger:      logger,
		DB:          db,
		RevealDelay: cfg.ChallengeRevealDelay,
		TrustProxy:  cfg.TrustProxy,
	}

	router := handlers.NewRouter(env, middleware.Logger(logger.Named("http")))

	g, gctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           middleware.CORS(cfg.AllowedOrigins)(router),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("db", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return svc.RunSweeper(gctx, cfg.SweepInterval)
	})
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := challenges.Sweep(); n > 0 {
					logger.Debug("dropped expired challenge attempts", zap.Int("count", n))
				}
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("migrate needs DB_DRIVER=postgres, got %q", cfg.Database.Driver)
	}
	ctx := cmd.Context()
	db, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.InitDB(ctx, db); err != nil {
		return err
	}
	logger.Info("schema is up to date", zap.Int("statements", len(database.Schema)))
	return nil
}
