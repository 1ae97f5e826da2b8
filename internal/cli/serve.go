package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/database"
	"storefront/internal/server"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"

	"github.com/spf13/cobra"
)

var (
	serveSkipMigrate   bool
	serveConsumeEvents bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server until SIGINT or SIGTERM.

Tables are migrated on start unless --skip-migrate is given. With
RABBITMQ_ENABLED=true order events are published to RabbitMQ, and
--consume-events also logs the events read back from the queue.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveSkipMigrate, "skip-migrate", false, "do not migrate tables on start")
	serveCmd.Flags().BoolVar(&serveConsumeEvents, "consume-events", false, "log order events consumed from RabbitMQ")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if !serveSkipMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Initialize RabbitMQ Client ---
	var events services.EventPublisher
	if cfg.RabbitMQ.Enabled {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
			Queue:    cfg.RabbitMQ.Queue,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		events = mqClient

		if serveConsumeEvents {
			if err := mqClient.ConsumeOrderEvents(ctx, rabbitmq.LogOrderEvent); err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}
	} else {
		log.Println("RabbitMQ disabled; order events will not be published")
	}

	app := server.New(server.Options{Config: cfg, DB: db, Events: events})

	// --- Start HTTP Server ---
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", cfg.AppPort)
		serveErr <- app.Listen(cfg.AppPort)
	}()

	// Wait for interrupt signal to gracefully shut down the server
	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
	return nil
}
