package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pkordes/tripboard/internal/config"
)

// rootOptions carries state shared by every subcommand.
type rootOptions struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.Planner
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	ro := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "planner",
		Short: "Plan a trip from the terminal against the Trip Board API.",
		Example: `
planner list --filter future --sort price
planner add --type flight --destination Geneva --from "2025-06-10 09:00" --to "2025-06-10 11:30" --price 300
planner favorite 6f1c...
`,
		SilenceUsage:      true,
		PersistentPreRunE: ro.load,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&ro.cfgFile, "config", "", "config file (default is .tripboard.yaml in the working or home directory)")
	pf.String("api-url", "", "Trip Board API base URL")
	pf.Duration("gate-lower", 0, "minimum time controls stay disabled around a change")
	pf.Duration("gate-upper", 0, "maximum time controls stay disabled around a change")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.Duration("timeout", 0, "timeout of every API request")

	// Bind persistent flags to viper
	_ = ro.v.BindPFlag(config.KeyAPIURL, pf.Lookup("api-url"))
	_ = ro.v.BindPFlag(config.KeyGateLower, pf.Lookup("gate-lower"))
	_ = ro.v.BindPFlag(config.KeyGateUpper, pf.Lookup("gate-upper"))
	_ = ro.v.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	_ = ro.v.BindPFlag(config.KeyTimeout, pf.Lookup("timeout"))

	addList(cmd, ro)
	addAdd(cmd, ro)
	addUpdate(cmd, ro)
	addFavorite(cmd, ro)
	addDelete(cmd, ro)
	return cmd
}

// load resolves configuration and builds the logger. Logs go to stderr so
// they never mix with command output.
func (ro *rootOptions) load(*cobra.Command, []string) error {
	cfg, err := config.LoadPlanner(ro.v, ro.cfgFile)
	if err != nil {
		return err
	}
	ro.cfg = cfg

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	ro.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}
