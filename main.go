package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"aargeom/adapters/monitoring"
	"aargeom/adapters/postgres"
	"aargeom/api"
	"aargeom/internal/config"
	"aargeom/internal/engine"
	"aargeom/internal/errors"
	"aargeom/ports"
)

// initDatabase connects to PostgreSQL and applies pending migrations.
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	migrator := postgres.NewMigrator(db)
	if err := migrator.Up(context.Background()); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The engine must initialize before anything touches it; a phi
	// invariant failure means the build itself is broken.
	eng := engine.NewEngine()
	if err := eng.Initialize(); err != nil {
		log.Fatalf("Failed to initialize geometry engine: %v", err)
	}

	// Storage is optional; without DATABASE_URL the service runs as a
	// stateless validator.
	var repo ports.AARRepository
	if appConfig.Database.URL != "" {
		db, err := initDatabase(appConfig)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		repo = postgres.NewAARRepository(db)
	} else {
		log.Println("DATABASE_URL not set, running without AAR storage")
	}

	mon := monitoring.NewClient(monitoring.Config{
		BaseURL: appConfig.Monitoring.BaseURL,
		Enabled: appConfig.Monitoring.Enabled,
		Timeout: appConfig.Monitoring.Timeout,
	})
	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := mon.Connect(connectCtx); err != nil {
		log.Printf("Monitoring connection failed: %v", err)
	}
	cancel()
	defer mon.Disconnect(context.Background())

	app := api.NewApp(api.Config{
		Engine:     eng,
		Repo:       repo,
		Monitoring: mon,
	})

	server := &http.Server{
		Addr:         ":" + appConfig.Server.Port,
		Handler:      app.Handler(),
		ReadTimeout:  appConfig.Server.ReadTimeout,
		WriteTimeout: appConfig.Server.WriteTimeout,
	}

	log.Printf("AAR processor listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
