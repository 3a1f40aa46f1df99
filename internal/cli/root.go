package cli

import (
	"fmt"

	"file-manager-plugin/internal/config"
	"file-manager-plugin/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// options carries the flags shared by every subcommand.
type options struct {
	v          *viper.Viper
	configFile string
	envFile    string
}

// NewRootCmd builds the file-manager command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{v: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:   "file-manager",
		Short: "File manager plugin host",
		Long: `file-manager hosts the file manager plugin and answers listDirectory
calls over JSON-RPC (stdio or HTTP) or directly from the command line.

Configuration is read from defaults, a YAML file (--config), a .env file,
FILE_MANAGER_* environment variables and flags, in increasing precedence.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Path to a YAML config file")
	flags.StringVar(&opts.envFile, "env-file", "", "Path to a .env file (default ./.env if present)")
	flags.String("log-level", config.Defaults().LogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-format", config.Defaults().LogFormat, "Log format (console or json)")
	mustBind(opts.v, flags, config.KeyLogLevel, "log-level")
	mustBind(opts.v, flags, config.KeyLogFormat, "log-format")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newListCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func mustBind(v *viper.Viper, flags *pflag.FlagSet, key, name string) {
	if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", name, err))
	}
}

// loadConfig resolves and validates the effective configuration.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.v, o.configFile, o.envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the logger for cfg. The stdio transport and the list
// command both keep stdout for data.
func newLogger(cfg *config.Config, transport string) (*zap.Logger, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, transport)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}
