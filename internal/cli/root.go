package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/perimeter/internal/config"
	"github.com/rileyhilliard/perimeter/internal/errors"
)

// Global flags
var (
	cfgFile      string
	endpointFlag string
)

var rootCmd = &cobra.Command{
	Use:   "perimeter",
	Short: "Live security dashboard for a facility status endpoint",
	Long: `perimeter polls a facility status endpoint and shows people count,
door and fence state, temperature and humidity in a terminal dashboard,
with an event log and a lockdown control.

Run 'perimeter serve' in one terminal and 'perimeter watch' in another to
try it against the built-in demo backend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for perimeter.

Examples:
  perimeter completion bash > /etc/bash_completion.d/perimeter
  perimeter completion zsh > "${fpath[1]}/_perimeter"
  perimeter completion fish > ~/.config/fish/completions/perimeter.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		default:
			return rootCmd.GenPowerShellCompletion(out)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .perimeter.yaml, searched upward)")
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "status endpoint URL, overrides the config")
	rootCmd.AddCommand(completionCmd)
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if isUnknownCommandError(err) {
			what := err.Error()
			if name := extractUnknownCommand(err); name != "" {
				what = fmt.Sprintf("Unknown command %q", name)
			}
			fmt.Fprintf(os.Stderr, "✗ %s\n\n  Run 'perimeter --help' to see what's available.\n", what)
			os.Exit(1)
		}
		fmt.Fprint(os.Stderr, err.Error())
		if !strings.HasSuffix(err.Error(), "\n") {
			fmt.Fprintln(os.Stderr)
		}
		os.Exit(1)
	}
}

// loadConfig finds and loads the config, applies flag overrides and validates it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config) {
	if endpointFlag != "" {
		cfg.Endpoint = endpointFlag
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

// isUnknownCommandError reports whether cobra rejected the command line itself.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the quoted command name out of cobra's error.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// durationFlagError builds the error for an unparseable duration flag.
func durationFlagError(err error, flag, value string) error {
	return errors.WrapWithCode(err, errors.ErrConfig,
		fmt.Sprintf("'%s' doesn't look like a valid --%s", value, flag),
		"Try something like 5s, 2m, or 500ms.")
}
