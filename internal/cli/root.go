package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yash0834/lovelane-cloudinary-api/internal/config"
	"github.com/yash0834/lovelane-cloudinary-api/internal/infra/logger"
	pgrepo "github.com/yash0834/lovelane-cloudinary-api/internal/repo/postgres"
)

// RootOptions holds flags shared by every subcommand.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand builds lovelanectl, the operator CLI for the API's database.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "lovelanectl",
		Short:         "Operational tasks for the Lovelane API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultConfig := os.Getenv("APP_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "configs/config.yaml"
	}
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", defaultConfig, "path to the YAML config file")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))

	return cmd
}

type runtime struct {
	cfg  config.Config
	log  *zap.Logger
	pool *pgxpool.Pool
}

func (r *runtime) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
	_ = r.log.Sync()
}

func openRuntime(ctx context.Context, opts *RootOptions) (*runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	pool, err := pgrepo.NewPool(ctx, pgrepo.PoolConfig{
		DSN:      cfg.Postgres.DSN,
		MaxConns: cfg.Postgres.MaxConns,
	})
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	return &runtime{cfg: cfg, log: log, pool: pool}, nil
}
