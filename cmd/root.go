// Package cmd holds the root command of kshell. Subcommands register
// themselves from the kshell main package.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/devggaurav/KShell-UI/internal/colors"
	"github.com/devggaurav/KShell-UI/internal/config"
	"github.com/devggaurav/KShell-UI/internal/logging"
	"github.com/devggaurav/KShell-UI/internal/version"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	metricsAddr string
	theme       string
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "kshell",
	Short: "A keyboard-driven command shell for your desktop.",
	Long:  `A keyboard-driven command shell for your desktop: launch apps, call contacts, browse files and keep notes.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logging.ShutdownGlobal()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil {
		colors.Error(err.Error())
	}
	return err
}

func init() {
	RootCmd.Version = version.String()

	// Hide the completion command
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		printHelpText(cmd.OutOrStdout(), cmd.Root())
	})

	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/kshell/config.toml)")
	RootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on host:port")
	RootCmd.PersistentFlags().StringVar(&theme, "theme", "", "color theme (dark or light)")
}

// setup loads configuration, applies flag overrides and starts logging.
func setup() error {
	if configPath != "" {
		if err := os.Setenv(config.EnvConfigPath, configPath); err != nil {
			return fmt.Errorf("setup: %w", err)
		}
	}
	config.Load()
	if metricsAddr != "" {
		config.Set("metrics_addr", metricsAddr)
	}
	if theme != "" {
		switch t := strings.ToLower(theme); t {
		case "dark", "light":
			config.Set("theme", t)
		default:
			return fmt.Errorf("invalid --theme %q: want dark or light", theme)
		}
	}
	colors.SetDebug(config.GetBool("debug", false))
	if err := logging.InitGlobal(); err != nil {
		colors.Warning("file logging disabled:", err.Error())
	}
	return nil
}

func printHelpText(w io.Writer, root *cobra.Command) {
	commandOrder := []string{
		"exec",
		"version",
	}

	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", found.Use, found.Short))
	}

	fmt.Fprintf(w, `kshell %s

%s

USAGE:
    kshell [COMMAND] [OPTIONS]

Without a command the interactive shell starts.

COMMANDS:
%s

OPTIONS:
    --config PATH          Use PATH as the config file
    --metrics-addr ADDR    Serve Prometheus metrics on ADDR
    --theme NAME           Start with the dark or light theme
    -h, --help             Show help message
`, version.String(), root.Short, strings.Join(cmdLines, "\n"))
}
