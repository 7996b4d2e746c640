// Command timetablegen is the sole executable surface over the
// timetable engine: a generate subcommand that runs the C1-C6 pipeline
// against a JSON request and prints the resulting grid, a validate
// subcommand that re-runs the validator (C6) against a previously
// generated timetable, and a save subcommand that persists a cached
// proposal. There is no HTTP server here; spec.md explicitly excludes
// transport, auth, and UI from this module's scope.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campusops/timetable-engine/internal/cache"
	"github.com/campusops/timetable-engine/internal/repository"
	"github.com/campusops/timetable-engine/internal/service"
	pkgcache "github.com/campusops/timetable-engine/pkg/cache"
	"github.com/campusops/timetable-engine/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	rootCmd := &cobra.Command{
		Use:   "timetablegen",
		Short: "Weekly academic timetable generator",
		Long: "timetablegen runs the constraint-based C1-C6 pipeline over a\n" +
			"JSON subject/faculty request and prints, validates, or persists the result.",
	}

	rootCmd.AddCommand(newGenerateCommand(cfg))
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newSaveCommand(cfg))

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// newGeneratorService wires a TimetableGeneratorService for CLI use.
// Generation never touches Postgres -- it only needs somewhere to stash
// the proposal it caches -- so db is nil unless the caller (currently
// just the save subcommand) needs to persist the result afterwards.
func newGeneratorService(cfg *config.Config, db *sqlx.DB) (*service.TimetableGeneratorService, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}

	proposals, err := newProposalCache(cfg)
	if err != nil {
		return nil, err
	}

	genCfg := service.TimetableGeneratorConfig{
		DefaultStrategy:          cfg.Timetable.DefaultStrategy,
		DefaultMaxSessionsPerDay: cfg.Timetable.MaxSessionsPerDay,
		ProposalTTL:              cfg.Timetable.ProposalTTL,
	}

	if db == nil {
		return service.NewTimetableGeneratorService(nil, nil, nil, proposals, nil, nil, logger, genCfg), nil
	}

	writer := repository.NewTimetableRepository(db)
	return service.NewTimetableGeneratorService(nil, nil, writer, proposals, nil, nil, logger, genCfg), nil
}

// newProposalCache picks the proposal store backing a generator service,
// switching on cfg.Timetable.CacheBackend. The redis backend is what
// lets a proposal minted by one "generate" invocation be found by a
// later, separate "save" invocation; the in-process default only ever
// sees proposals cached within its own run.
func newProposalCache(cfg *config.Config) (cache.ProposalCache, error) {
	switch cfg.Timetable.CacheBackend {
	case "redis":
		client, err := pkgcache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis proposal cache: %w", err)
		}
		return cache.NewRedisProposalCache(client), nil
	default:
		return cache.NewMemoryProposalCache(), nil
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
