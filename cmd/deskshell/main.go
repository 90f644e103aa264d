package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Mavwarf/deskshell/internal/config"
	"github.com/Mavwarf/deskshell/internal/logging"
	"github.com/Mavwarf/deskshell/internal/services"
	"github.com/Mavwarf/deskshell/internal/update"
	"github.com/Mavwarf/deskshell/internal/version"
)

var (
	configPath string
	debug      bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "deskshell",
		Short: "Update and session tools for the deskshell desktop client",
		Long: `deskshell drives the desktop client's update and session machinery
without opening a window.

Examples:
  deskshell check                 # Ask the update server for a newer release
  deskshell update --yes          # Install it without prompting
  deskshell session show          # Print the mirrored browser session
  deskshell history --days 30     # Summarize the last 30 days`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to deskshell-config.json")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Log at debug level")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newUpdateCmd())
	root.AddCommand(newSessionCmd())
	root.AddCommand(newLeaveCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "deskshell %s (%s/%s)\n", version.Full(), version.Target(), version.Arch())
		},
	}
}

// loadConfig reads and validates the config and initializes logging.
func loadConfig() (config.Config, error) {
	cfg, path, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if err := config.Validate(cfg); err != nil {
		return cfg, err
	}
	if debug {
		cfg.Log.Level = "debug"
	}
	if err := logging.Init(cfg.Log.Level, cfg.LogFile()); err != nil {
		return cfg, err
	}
	if path != "" {
		log.Debugf("using config %s", path)
	}
	return cfg, nil
}

// openServices loads the config and wires every component. The caller
// must Close the result.
func openServices(opts ...update.Option) (*services.Services, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return services.New(cfg, services.Options{UpdateOptions: opts})
}
