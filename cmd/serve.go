package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"klemmenplan/internal/analysis"
	"klemmenplan/internal/assistant"
	"klemmenplan/internal/config"
	"klemmenplan/internal/db"
	"klemmenplan/internal/history"
	"klemmenplan/internal/server"
)

var (
	servePort     int
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the klemmenplan HTTP server",
	Long:  `Starts the HTTP server exposing the analyze and chat endpoints plus the request history API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		apiKey := os.Getenv(config.APIKeyEnvVar)
		if apiKey == "" {
			// Keep serving: requests answer 500 with a diagnostic
			// instead of the process refusing to start.
			fmt.Fprintf(os.Stderr, "Warning: %s is not set; analyze and chat requests will fail\n", config.APIKeyEnvVar)
		}
		client := openai.NewClient(apiKey)

		orch := assistant.New(client, assistant.Options{
			PollInterval:    time.Duration(cfg.PollIntervalMS) * time.Millisecond,
			MaxPollAttempts: cfg.MaxPollAttempts,
		})

		dbPath := filepath.Join(cfg.DataDir, "klemmenplan.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(server.Config{Port: servePort, AllowAll: serveAllowAll}, database)

		historyStore := history.NewStore(database)
		history.RegisterRoutes(srv.Router(), historyStore)

		handler := analysis.NewHandler(orch, analysis.Config{
			AnalyzeAssistantID: cfg.AnalyzeAssistantID,
			ChatAssistantID:    cfg.ChatAssistantID,
			MaxFiles:           cfg.MaxFiles,
			StrictTable:        cfg.StrictTable,
			APIKeySet:          apiKey != "",
		}, historyStore)
		analysis.RegisterRoutes(srv.Router(), handler)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "klemmenplan v%s starting on port %d\n", Version, servePort)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Max files per request: %d\n", cfg.MaxFiles)

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "Allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}
