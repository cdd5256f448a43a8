package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"clindb/internal/audit"
	"clindb/internal/config"
	"clindb/internal/logutil"
	"clindb/internal/service"
	"clindb/internal/storage"
	"clindb/internal/version"
)

var (
	// dataRootFlag is the CLI --data flag value
	dataRootFlag string
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "clindb",
	Short: "clindb - clinic appointment data backend",
	Long: `clindb manages the appointment store of a small occupational-health
practice: an embedded SQLite database of patient visits, attached PDF
reports, and the statistics derived from them.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("clindb version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&dataRootFlag, "data", ".",
		"Data directory holding the database, uploads, and logs")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error (default: from config)")
}

// env bundles the wired data layer for one command invocation.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *storage.DB
	auditor *audit.Logger
	repo    *storage.AppointmentRepository
	manager *service.Manager
}

// openEnv loads config, opens the store, and wires the repository,
// aggregator, and cached facade.
func openEnv() (*env, error) {
	cfg, err := config.LoadConfig(dataRootFlag)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	logger := logutil.NewLogger(os.Stderr, logutil.LevelFromString(level))

	db, err := storage.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	auditor, err := audit.Open(cfg.AuditLogPath(), logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	repo := storage.NewAppointmentRepository(db, auditor, cfg.Sanitize.MaxTextLength, cfg.Sanitize.MaxNotesLength)
	agg := storage.NewAggregator(db)
	manager := service.NewManager(repo, agg, logger,
		time.Duration(cfg.Cache.ListTtlSeconds)*time.Second,
		time.Duration(cfg.Cache.SnapshotTtlSeconds)*time.Second)

	return &env{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		auditor: auditor,
		repo:    repo,
		manager: manager,
	}, nil
}

func (e *env) close() {
	if err := e.auditor.Close(); err != nil {
		e.logger.Warn("audit log close failed", "error", err)
	}
	if err := e.db.Close(); err != nil {
		e.logger.Warn("database close failed", "error", err)
	}
}
