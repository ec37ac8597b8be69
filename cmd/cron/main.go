package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/jobbook/core/internal/config"
	"github.com/jobbook/core/pkg/database"
	"github.com/jobbook/core/pkg/database/pool"
	"github.com/jobbook/core/pkg/jobs"
	"github.com/jobbook/core/pkg/recurrence"
	"github.com/jobbook/core/pkg/services"
)

func main() {
	// Parse command line flags
	var (
		jobName = flag.String("job", "", "Run specific job once (materialize)")
		once    = flag.Bool("once", false, "Run job once and exit")
		dateArg = flag.String("date", "", "Target date for -job materialize (YYYY-MM-DD, defaults to today)")
	)
	flag.Parse()

	cfg := config.Load()

	// Connect to database
	db, err := pool.New(context.Background(), cfg.DatabaseURL(), nil)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize services
	store := database.NewStore(db)
	materializerService := services.NewMaterializerService(store, store)

	// Handle single job execution
	if *once && *jobName != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		switch *jobName {
		case "materialize":
			target := time.Now().UTC()
			if *dateArg != "" {
				parsed, err := time.Parse("2006-01-02", *dateArg)
				if err != nil {
					log.Fatalf("Invalid -date %q: %v", *dateArg, err)
				}
				target = parsed
			}
			log.Printf("Running materialize pass once for %s...", recurrence.Day(target).Format("2006-01-02"))
			created, err := materializerService.Materialize(ctx, target)
			if err != nil {
				log.Fatalf("Failed to execute materialize pass: %v", err)
			}
			log.Printf("Materialize pass completed successfully, %d jobs created", created)
		default:
			log.Fatalf("Unknown job: %s. Available jobs: materialize", *jobName)
		}
		return
	}

	// Create job manager with distributed locking so overlapping service
	// instances never run the pass concurrently
	jobManager := jobs.NewProductionJobManager(db, nil)

	materializeJob := jobs.NewMaterializeCatchupJob(materializerService, cfg.Scheduler.MaterializeSchedule)
	if err := jobManager.RegisterJob(materializeJob); err != nil {
		log.Fatalf("Failed to register materialize catch-up job: %v", err)
	}

	// Catch up for today on boot; the scheduled pass then takes over.
	// Redundant with the schedule by design - the pass is idempotent.
	if cfg.Scheduler.MaterializeOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		if err := materializeJob.Execute(ctx); err != nil {
			log.Printf("Startup materialize pass failed: %v", err)
		}
		cancel()
	}

	// Start job manager
	jobManager.Start()
	log.Printf("Cron job service started with %d jobs", len(jobManager.GetJobs()))

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down cron job service...")
	jobManager.Stop()
	log.Println("Cron job service stopped")
}
