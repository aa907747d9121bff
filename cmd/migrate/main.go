package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/apartment-registry/internal/config"
	"github.com/light-bringer/apartment-registry/internal/logging"
)

var (
	configPath = flag.String("config", "", "Path to config file (defaults to ./config.yaml if present)")
	migrateDir = flag.String("migrations", "migrations", "Directory containing migration SQL files")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging)

	if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
		logger.Info().Str("emulator", host).Msg("using Spanner emulator")
	}

	m := &migrator{cfg: cfg.Spanner, dir: *migrateDir, logger: logger}
	if err := m.run(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	logger.Info().Msg("migrations completed")
}

type migrator struct {
	cfg    config.SpannerConfig
	dir    string
	logger zerolog.Logger
}

func (m *migrator) run(ctx context.Context) error {
	if err := m.ensureInstance(ctx); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}

	if err := m.ensureDatabase(ctx); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}

	if err := m.applyMigrations(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

func (m *migrator) instancePath() string {
	return fmt.Sprintf("projects/%s/instances/%s", m.cfg.Project, m.cfg.Instance)
}

func (m *migrator) ensureInstance(ctx context.Context) error {
	log := m.logger.With().Str("instance", m.cfg.Instance).Logger()

	admin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer admin.Close()

	_, err = admin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: m.instancePath()})
	if err == nil {
		log.Debug().Msg("instance exists")
		return nil
	}
	if status.Code(err) != codes.NotFound {
		log.Warn().Err(err).Msg("unexpected error checking instance")
		return nil
	}

	log.Info().Msg("creating instance")
	op, err := admin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     fmt.Sprintf("projects/%s", m.cfg.Project),
		InstanceId: m.cfg.Instance,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", m.cfg.Project),
			DisplayName: "Apartment Registry",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create instance: %w", err)
	}

	// The emulator may complete the operation before we wait on it.
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		log.Warn().Err(err).Msg("instance creation did not report success")
	}
	return nil
}

func (m *migrator) ensureDatabase(ctx context.Context) error {
	log := m.logger.With().Str("database", m.cfg.Database).Logger()

	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create database admin client: %w", err)
	}
	defer admin.Close()

	_, err = admin.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: m.cfg.DatabasePath()})
	if err == nil {
		log.Debug().Msg("database exists")
		return nil
	}

	if status.Code(err) != codes.NotFound {
		if os.Getenv("SPANNER_EMULATOR_HOST") != "" {
			log.Warn().Err(err).Msg("proceeding with database in emulator mode")
			return nil
		}
		return fmt.Errorf("failed to check database: %w", err)
	}

	log.Info().Msg("creating database")
	op, err := admin.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          m.instancePath(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", m.cfg.Database),
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create database: %w", err)
	}

	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}
	return nil
}

func (m *migrator) applyMigrations(ctx context.Context) error {
	files, err := filepath.Glob(filepath.Join(m.dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		m.logger.Warn().Str("dir", m.dir).Msg("no migration files found")
		return nil
	}
	sort.Strings(files)

	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create database admin client: %w", err)
	}
	defer admin.Close()

	applied, err := existingTables(ctx, admin, m.cfg.DatabasePath())
	if err != nil {
		return err
	}

	for _, file := range files {
		name := filepath.Base(file)

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		statements := pendingStatements(splitDDLStatements(string(content)), applied)
		if len(statements) == 0 {
			m.logger.Debug().Str("migration", name).Msg("already applied")
			continue
		}

		m.logger.Info().Str("migration", name).Int("statements", len(statements)).Msg("applying migration")
		op, err := admin.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   m.cfg.DatabasePath(),
			Statements: statements,
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}
	}

	return nil
}

// existingTables returns the lower-cased names of the tables and indexes
// already present in the schema.
func existingTables(ctx context.Context, admin *database.DatabaseAdminClient, dbPath string) (map[string]bool, error) {
	resp, err := admin.GetDatabaseDdl(ctx, &databasepb.GetDatabaseDdlRequest{Database: dbPath})
	if err != nil {
		return nil, fmt.Errorf("failed to read current schema: %w", err)
	}

	names := make(map[string]bool)
	for _, stmt := range resp.GetStatements() {
		if name := objectName(stmt); name != "" {
			names[name] = true
		}
	}
	return names, nil
}

// pendingStatements drops CREATE statements for objects that already exist,
// so a migration can be re-run against a partially migrated database.
func pendingStatements(statements []string, existing map[string]bool) []string {
	var out []string
	for _, stmt := range statements {
		if name := objectName(stmt); name != "" && existing[name] {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

// objectName extracts the table or index name of a CREATE statement.
func objectName(stmt string) string {
	fields := strings.Fields(stmt)
	if len(fields) < 3 || !strings.EqualFold(fields[0], "CREATE") {
		return ""
	}

	i := 1
	for i < len(fields) && (strings.EqualFold(fields[i], "UNIQUE") || strings.EqualFold(fields[i], "NULL_FILTERED")) {
		i++
	}
	if i+1 >= len(fields) {
		return ""
	}
	if !strings.EqualFold(fields[i], "TABLE") && !strings.EqualFold(fields[i], "INDEX") {
		return ""
	}

	name := fields[i+1]
	if idx := strings.IndexAny(name, "( "); idx >= 0 {
		name = name[:idx]
	}
	return strings.ToLower(strings.Trim(name, "`"))
}

func splitDDLStatements(content string) []string {
	lines := strings.Split(content, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}
