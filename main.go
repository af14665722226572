package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/404Simon/splitify-backend/internal/controllers"
	"github.com/404Simon/splitify-backend/internal/ledger"
	"github.com/404Simon/splitify-backend/internal/models"
	"github.com/404Simon/splitify-backend/internal/recurring"
	"github.com/404Simon/splitify-backend/internal/router"
	"github.com/404Simon/splitify-backend/internal/storage"
	"github.com/404Simon/splitify-backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load a local .env file if there is one. The environment always wins.
	_ = godotenv.Load()

	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	// Create data directory
	dataDir := filepath.Join(".", "data")
	err := os.MkdirAll(dataDir, os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database and migrate the schema
	dsn, ok := os.LookupEnv("DB_DSN")
	if !ok {
		dsn = "data/gorm.db?_pragma=foreign_keys(1)"
	}

	err = models.Connect(dsn)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	store := storage.New(models.DB)
	engine := recurring.NewEngine(store)
	co := controllers.NewController(models.DB, store, ledger.NewService(store), engine)

	r, err := router.Config()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(co, r.Group("/"))

	go sweepRecurring(engine)

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}

// sweepRecurring runs the recurrence engine once at startup and then on a
// fixed interval. The engine is idempotent per day, an extra run after a
// restart does no harm.
func sweepRecurring(engine *recurring.Engine) {
	interval := 24 * time.Hour
	if raw, ok := os.LookupEnv("RECURRING_SWEEP_INTERVAL"); ok {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal().Str("RECURRING_SWEEP_INTERVAL", raw).Msg(err.Error())
		}
		interval = parsed
	}

	sweep := func() {
		if _, err := engine.ProcessDue(types.Today()); err != nil {
			log.Error().Err(err).Msg("recurring sweep failed")
		}
	}

	sweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		sweep()
	}
}
