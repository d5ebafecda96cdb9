package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/procat-browse/internal/pkg/logger"
)

var (
	projectID  = flag.String("project", getEnvOrDefault("SPANNER_PROJECT_ID", "test-project"), "GCP project ID")
	instanceID = flag.String("instance", getEnvOrDefault("SPANNER_INSTANCE_ID", "dev-instance"), "Spanner instance ID")
	databaseID = flag.String("database", getEnvOrDefault("SPANNER_DATABASE_ID", "catalog-db"), "Spanner database ID")
	migrateDir = flag.String("migrations", "migrations", "Directory containing migration SQL files")
)

func main() {
	flag.Parse()

	log, err := logger.New(logger.Config{
		Level:       getEnvOrDefault("LOG_LEVEL", "info"),
		Environment: getEnvOrDefault("APP_ENV", "development"),
		ServiceName: "catalog-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if emulatorHost := os.Getenv("SPANNER_EMULATOR_HOST"); emulatorHost != "" {
		log.Info("Using Spanner emulator", zap.String("host", emulatorHost))
	}

	m := &migrator{log: log}
	if err := m.run(context.Background()); err != nil {
		log.Error("Migration failed", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Migrations completed successfully")
}

type migrator struct {
	log *zap.Logger
}

func (m *migrator) run(ctx context.Context) error {
	if err := m.ensureInstance(ctx); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	if err := m.ensureDatabase(ctx, adminClient); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}

	if err := m.applyMigrations(ctx, adminClient); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func databasePath() string {
	return fmt.Sprintf("projects/%s/instances/%s/databases/%s", *projectID, *instanceID, *databaseID)
}

func (m *migrator) ensureInstance(ctx context.Context) error {
	log := m.log.With(zap.String("instance", *instanceID))

	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{
		Name: fmt.Sprintf("projects/%s/instances/%s", *projectID, *instanceID),
	})
	if err == nil {
		log.Info("Instance already exists")
		return nil
	}
	if status.Code(err) != codes.NotFound {
		log.Warn("Unexpected error checking instance", zap.Error(err))
		return nil
	}

	log.Info("Creating instance")
	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     fmt.Sprintf("projects/%s", *projectID),
		InstanceId: *instanceID,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", *projectID),
			DisplayName: "Development Instance",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create instance: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		log.Warn("Instance creation did not complete cleanly", zap.Error(err))
	}
	return nil
}

func (m *migrator) ensureDatabase(ctx context.Context, adminClient *database.DatabaseAdminClient) error {
	log := m.log.With(zap.String("database", *databaseID))

	_, err := adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: databasePath()})
	if err == nil {
		log.Info("Database already exists")
		return nil
	}

	if status.Code(err) == codes.NotFound {
		log.Info("Creating database")
		op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
			Parent:          fmt.Sprintf("projects/%s/instances/%s", *projectID, *instanceID),
			CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", *databaseID),
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

	if os.Getenv("SPANNER_EMULATOR_HOST") != "" {
		log.Warn("Proceeding with database (emulator mode)", zap.Error(err))
		return nil
	}
	return fmt.Errorf("failed to check database: %w", err)
}

// applyMigrations runs every statement of the migration files, in file name
// order, that creates an object the database does not have yet.
func (m *migrator) applyMigrations(ctx context.Context, adminClient *database.DatabaseAdminClient) error {
	files, err := filepath.Glob(filepath.Join(*migrateDir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		m.log.Info("No migration files found", zap.String("dir", *migrateDir))
		return nil
	}
	sort.Strings(files)

	ddl, err := adminClient.GetDatabaseDdl(ctx, &databasepb.GetDatabaseDdlRequest{Database: databasePath()})
	if err != nil {
		return fmt.Errorf("failed to read current schema: %w", err)
	}
	existing := make(map[string]bool)
	for _, stmt := range ddl.GetStatements() {
		if name := ddlObjectName(stmt); name != "" {
			existing[name] = true
		}
	}

	for _, file := range files {
		migrationName := filepath.Base(file)

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		statements := pendingStatements(splitDDLStatements(string(content)), existing)
		if len(statements) == 0 {
			m.log.Info("Already applied", zap.String("file", migrationName))
			continue
		}

		m.log.Info("Applying", zap.String("file", migrationName), zap.Int("statements", len(statements)))
		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   databasePath(),
			Statements: statements,
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", migrationName, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", migrationName, err)
		}
		for _, stmt := range statements {
			if name := ddlObjectName(stmt); name != "" {
				existing[name] = true
			}
		}
	}

	return nil
}

var createObjectRe = regexp.MustCompile(`(?i)^CREATE\s+(?:UNIQUE\s+|NULL_FILTERED\s+)*(TABLE|INDEX)\s+` + "`?" + `(\w+)`)

// ddlObjectName returns "TABLE name" or "INDEX name" for CREATE statements
// and "" for anything else.
func ddlObjectName(stmt string) string {
	match := createObjectRe.FindStringSubmatch(strings.TrimSpace(stmt))
	if match == nil {
		return ""
	}
	return strings.ToUpper(match[1]) + " " + strings.ToLower(match[2])
}

// pendingStatements drops CREATE statements for objects in existing.
// Statements that create nothing are always kept.
func pendingStatements(statements []string, existing map[string]bool) []string {
	var pending []string
	for _, stmt := range statements {
		if name := ddlObjectName(stmt); name != "" && existing[name] {
			continue
		}
		pending = append(pending, stmt)
	}
	return pending
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

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
