package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bimarsk/jadwalbot/internal/command"
	"github.com/bimarsk/jadwalbot/internal/config"
	"github.com/bimarsk/jadwalbot/internal/database"
	"github.com/bimarsk/jadwalbot/internal/repository"
	"github.com/bimarsk/jadwalbot/internal/schedule"
	"github.com/bimarsk/jadwalbot/internal/scheduler"
	"github.com/bimarsk/jadwalbot/internal/server"
	"github.com/bimarsk/jadwalbot/internal/whatsapp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate required config
	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}
	if cfg.AccessToken == "" {
		log.Fatal("WA_ACCESS_TOKEN is required")
	}
	if cfg.PhoneNumberID == "" {
		log.Fatal("WA_PHONE_NUMBER_ID is required")
	}
	if cfg.RecipientID == "" {
		log.Fatal("WA_RECIPIENT_ID is required")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	// Run migrations
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// One store instance shared by the dispatcher and the scanner.
	store := schedule.NewStore(repository.NewScheduleRepository(db))
	notifier := whatsapp.New(cfg.AccessToken, cfg.PhoneNumberID, cfg.APIVersion)

	// Create and start the reminder scanner
	scanner := scheduler.New(notifier, store, cfg.RecipientID, cfg.CheckInterval, cfg.Lookahead)
	go scanner.Start(ctx)

	// The dispatcher wakes the scanner after an add so a just-added
	// due-soon activity is scanned right away.
	dispatcher := command.NewDispatcher(store, scanner)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	srv := server.New(server.Config{
		Addr:        cfg.HTTPAddress,
		VerifyToken: cfg.VerifyToken,
		RecipientID: cfg.RecipientID,
	}, dispatcher, notifier)

	log.Println("Starting webhook server...")
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
