package migrate

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"lucerna/internal/infrastructure/config"
	"lucerna/internal/infrastructure/migration"
	sharedConfig "lucerna/internal/shared/config"
	"lucerna/internal/shared/logger"
)

var (
	env   string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back, or inspect the database schema migrations.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE:  runDown,
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to roll back")
	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		RunE:  runStatus,
	}
}

func initEnv() (*sql.DB, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	db, err := sql.Open("mysql", migrationDSN(&cfg.Database))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, log, nil
}

// migrationDSN enables multiStatements so migration files can carry more
// than one DDL statement.
func migrationDSN(cfg *sharedConfig.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC&multiStatements=true",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
}

func runUp(cmd *cobra.Command, args []string) error {
	db, log, err := initEnv()
	if err != nil {
		return err
	}
	defer db.Close()

	log.Infow("applying migrations", "environment", env)
	return migration.NewMigrator(log).Up(db)
}

func runDown(cmd *cobra.Command, args []string) error {
	db, log, err := initEnv()
	if err != nil {
		return err
	}
	defer db.Close()

	log.Infow("rolling back migrations", "environment", env, "steps", steps)
	return migration.NewMigrator(log).Down(db, steps)
}

func runStatus(cmd *cobra.Command, args []string) error {
	db, log, err := initEnv()
	if err != nil {
		return err
	}
	defer db.Close()

	version, dirty, err := migration.NewMigrator(log).Version(db)
	if err != nil {
		return err
	}

	fmt.Printf("Environment:     %s\n", env)
	fmt.Printf("Current version: %d\n", version)
	fmt.Printf("Dirty:           %t\n", dirty)
	return nil
}
