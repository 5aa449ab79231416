// Package cli implements the bridge command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/bridge/compiler/load"
	"github.com/syssam/bridge/dialect"
	"github.com/syssam/bridge/dialect/sql"
	"github.com/syssam/bridge/entity"
)

// Config is the configuration of the command, read from bridge.yaml,
// BRIDGE_* environment variables and flags.
type Config struct {
	Models   []string `mapstructure:"models"`
	Dialect  string   `mapstructure:"dialect"`
	Database struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"database"`
	Gen struct {
		Target  string `mapstructure:"target"`
		Package string `mapstructure:"package"`
	} `mapstructure:"gen"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// app holds the state shared by the commands.
type app struct {
	out     io.Writer
	v       *viper.Viper
	cfgFile string
	cfg     Config
	logger  *slog.Logger
}

// NewRootCommand returns the bridge command. Output and logs go to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out, v: viper.New()}
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Map framework field declarations to SQL tables",
		Long: `bridge reads entity declarations from YAML model files, maps their
fields to columns and properties, and renders, checks or applies the
resulting tables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./bridge.yaml)")
	flags.StringSlice("models", nil, "model files or directories")
	flags.String("dialect", "", "SQL dialect: "+strings.Join(dialect.Names(), ", "))
	flags.String("dsn", "", "database source name")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	for key, flag := range map[string]string{
		"models":       "models",
		"dialect":      "dialect",
		"database.dsn": "dsn",
		"log.level":    "log-level",
	} {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	a.v.SetDefault("models", []string{"models"})
	a.v.SetDefault("dialect", dialect.SQLite)
	a.v.SetDefault("database.dsn", "")
	a.v.SetDefault("gen.target", "model")
	a.v.SetDefault("gen.package", "")
	a.v.SetDefault("log.level", "info")

	cmd.AddCommand(
		a.ddlCommand(),
		a.checkCommand(),
		a.inspectCommand(),
		a.migrateCommand(),
		a.genCommand(),
		a.showCommand(),
	)
	return cmd
}

// Execute runs the command and returns the process exit code.
func Execute(ctx context.Context, out io.Writer, args []string) int {
	cmd := NewRootCommand(out)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(out, "Error:", err)
		return 1
	}
	return 0
}

// init reads the configuration and sets up logging.
func (a *app) init() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("bridge")
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix("BRIDGE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	if err := a.v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.cfg.Log.Level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.logger = slog.New(slog.NewTextHandler(a.out, &slog.HandlerOptions{Level: level}))
	if f := a.v.ConfigFileUsed(); f != "" {
		a.logger.Debug("using config file", "path", f)
	}
	d, err := dialect.Normalize(a.cfg.Dialect)
	if err != nil {
		return err
	}
	a.cfg.Dialect = d
	return nil
}

// graph loads the models.
func (a *app) graph() (*entity.Graph, error) {
	spec, err := (&load.Config{Paths: a.cfg.Models}).Load()
	if err != nil {
		return nil, err
	}
	a.logger.Debug("models loaded", "files", len(spec.Files), "entities", len(spec.Entities))
	return spec.Graph(entity.WithLogger(a.logger))
}

// driverNames are the database/sql driver names of the dialects.
var driverNames = map[string]string{
	dialect.MySQL:    "mysql",
	dialect.Postgres: "postgres",
	dialect.SQLite:   "sqlite",
}

// open connects to the configured database.
func (a *app) open(ctx context.Context) (*sql.Driver, error) {
	if a.cfg.Database.DSN == "" {
		return nil, errors.New("database.dsn is required (via flag, config or BRIDGE_DATABASE_DSN)")
	}
	drv, err := sql.Open(driverNames[a.cfg.Dialect], a.cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := drv.DB().PingContext(ctx); err != nil {
		drv.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return drv, nil
}
