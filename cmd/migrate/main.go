package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pharmapos/backend/internal/infrastructure/config"
	"github.com/pharmapos/backend/internal/infrastructure/logger"
	"github.com/pharmapos/backend/internal/infrastructure/migration"
)

const usage = `Usage: migrate [flags] <command> [args]

Commands:
  create <name>   Create a new timestamped migration pair
  list            List migration files
  up              Apply all pending migrations
  down            Roll back the most recent migration
  step <n>        Apply n migrations (negative rolls back)
  goto <version>  Migrate to a specific version
  version         Print the current schema version
  force <version> Stamp the schema version without migrating

Flags:
  -path string        migrations directory (default "migrations")
  -log-level string   log level (default "info")
`

func main() {
	path := flag.String("path", "migrations", "migrations directory")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	zapLogger, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(zapLogger)

	if err := run(args, *path, zapLogger); err != nil {
		zapLogger.Fatal("migration command failed", zap.Error(err))
	}
}

func run(args []string, path string, zapLogger *zap.Logger) error {
	command := args[0]

	// create and list work without a database connection
	switch command {
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("create requires a migration name")
		}
		up, down, err := migration.CreateMigration(path, args[1])
		if err != nil {
			return err
		}
		zapLogger.Info("created migration", zap.String("up", up), zap.String("down", down))
		return nil
	case "list":
		names, err := migration.ListMigrations(path)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	migrator, err := migration.New(db, path, zapLogger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	switch command {
	case "up":
		return migrator.Up()
	case "down":
		return migrator.Down()
	case "step":
		if len(args) < 2 {
			return fmt.Errorf("step requires a count")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step count %q: %w", args[1], err)
		}
		return migrator.Steps(n)
	case "goto":
		if len(args) < 2 {
			return fmt.Errorf("goto requires a version")
		}
		v, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return migrator.GoTo(uint(v))
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return err
		}
		zapLogger.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force requires a version")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return migrator.Force(v)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
