package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/timebooth/internal/booth"
	"github.com/kozaktomas/timebooth/internal/config"
	"github.com/kozaktomas/timebooth/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the photo booth web server",
	Long: `Start the Timebooth web server.
The web server hosts the browser photo booth: live camera preview with
filters, era selection, time travel via a generative image model, and the
saved-results gallery.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	transformer, err := newTransformer(context.Background(), cfg)
	if err != nil {
		return err
	}
	fmt.Printf("Image backend: %s\n", transformer.Name())

	store, closeStore, err := newGalleryStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ttl := time.Duration(cfg.Booth.SessionTTLMinutes) * time.Minute
	booths := booth.NewManager(transformer, store, ttl)

	port, host := resolveServeHostPort(cmd)
	server := web.NewServer(cfg, port, host, booths, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Timebooth on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
