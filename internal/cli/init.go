package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/perimeter/internal/config"
	"github.com/rileyhilliard/perimeter/internal/errors"
	"github.com/rileyhilliard/perimeter/internal/status"
	"github.com/rileyhilliard/perimeter/internal/ui"
)

var (
	initForce bool
	initYes   bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .perimeter.yaml configuration",
	Long: `Write a .perimeter.yaml in the current directory.

Asks for the status endpoint, poll interval, views and lockdown wiring,
then checks that the endpoint answers. Prompts are skipped with --yes or
when stdin isn't a terminal; defaults are used for anything not given.

Examples:
  perimeter init
  perimeter init --endpoint http://10.0.0.5:5000/api/status --yes
  perimeter init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(cmd.Context(), InitOptions{
			Path:        filepath.Join(".", config.ConfigFileName),
			Endpoint:    endpointFlag,
			Overwrite:   initForce,
			Interactive: !initYes && term.IsTerminal(int(os.Stdin.Fd())),
			Out:         cmd.OutOrStdout(),
		})
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "skip prompts and use defaults")
	rootCmd.AddCommand(initCmd)
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Path        string
	Endpoint    string // Pre-filled endpoint; default when empty
	Overwrite   bool   // Overwrite existing config without asking
	Interactive bool   // Show huh prompts
	Out         io.Writer
}

// initAnswers are the values the form fills in.
type initAnswers struct {
	Endpoint     string
	PollInterval string
	Views        []string
	FenceLogging string
	Commander    string
}

// Init writes a new config file.
func Init(ctx context.Context, opts InitOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	if _, err := os.Stat(opts.Path); err == nil && !opts.Overwrite {
		if !opts.Interactive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", opts.Path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("'%s' already exists. Overwrite?", opts.Path)).
				Value(&overwrite),
		))
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(opts.Out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	answers := defaultAnswers(cfg)
	if opts.Endpoint != "" {
		answers.Endpoint = opts.Endpoint
	}

	if opts.Interactive {
		if err := askInit(&answers); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or use --yes")
		}
	}

	if err := answers.apply(cfg); err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	checkEndpoint(ctx, opts.Out, cfg)

	if err := config.Write(opts.Path, cfg, true); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", opts.Path),
			"Check directory permissions")
	}

	fmt.Fprintf(opts.Out, "%s Created %s\n\n", ui.SymbolSuccess, opts.Path)
	fmt.Fprintln(opts.Out, "Next steps:")
	fmt.Fprintln(opts.Out, "  perimeter serve   - Start the demo backend")
	fmt.Fprintln(opts.Out, "  perimeter watch   - Open the dashboard")
	fmt.Fprintln(opts.Out, "  perimeter status  - Fetch one snapshot")
	return nil
}

func defaultAnswers(cfg *config.Config) initAnswers {
	return initAnswers{
		Endpoint:     cfg.Endpoint,
		PollInterval: cfg.PollInterval.String(),
		Views:        append([]string(nil), cfg.Dashboard.Views...),
		FenceLogging: cfg.Dashboard.FenceLogging,
		Commander:    cfg.Lockdown.Commander,
	}
}

func (a initAnswers) apply(cfg *config.Config) error {
	d, err := time.ParseDuration(a.PollInterval)
	if err != nil {
		return durationFlagError(err, "interval", a.PollInterval)
	}

	cfg.Endpoint = strings.TrimSpace(a.Endpoint)
	cfg.PollInterval = d
	cfg.Dashboard.Views = a.Views
	cfg.Dashboard.FenceLogging = a.FenceLogging
	cfg.Lockdown.Commander = a.Commander
	if a.Commander == config.CommanderHTTP {
		cfg.Lockdown.URL = baseURL(cfg.Endpoint)
	}
	return nil
}

// baseURL strips the path from an endpoint, leaving scheme://host.
func baseURL(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Scheme + "://" + u.Host
}

func askInit(a *initAnswers) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Status endpoint").
				Description("URL that returns the facility status JSON").
				Placeholder("http://localhost:5000/api/status").
				Value(&a.Endpoint).
				Validate(func(s string) error {
					u, err := url.Parse(strings.TrimSpace(s))
					if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
						return fmt.Errorf("enter a full http(s) URL")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Poll interval").
				Options(huh.NewOptions("2s", "5s", "10s", "30s")...).
				Value(&a.PollInterval),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Views").
				Options(huh.NewOptions("overview", "control_room", "patrol_guard", "event_log")...).
				Value(&a.Views).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return fmt.Errorf("pick at least one view")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Fence alarm logging").
				Options(
					huh.NewOption("Every poll while the alarm is raised", config.FenceLoggingEveryPoll),
					huh.NewOption("Once when the alarm goes off", config.FenceLoggingEdge),
				).
				Value(&a.FenceLogging),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Lockdown commands").
				Description("Where the lockdown button sends its state").
				Options(
					huh.NewOption("Nowhere (dashboard only)", config.CommanderNone),
					huh.NewOption("HTTP POST to the backend", config.CommanderHTTP),
					huh.NewOption("MQTT topic", config.CommanderMQTT),
				).
				Value(&a.Commander),
		),
	)
	return form.Run()
}

// checkEndpoint fetches once so a typo shows up now instead of in the
// dashboard. Failure is only reported.
func checkEndpoint(ctx context.Context, out io.Writer, cfg *config.Config) {
	spinner := ui.NewSpinner(out, "Checking "+cfg.Endpoint)
	spinner.Start()

	client := status.NewClient(cfg.Endpoint, requestTimeout(cfg), status.WithUserAgent(userAgent()))
	snap, err := client.Fetch(ctx)
	switch {
	case err != nil:
		spinner.Fail()
		fmt.Fprintf(out, "  %s\n\n", ui.MutedStyle().Render("Endpoint didn't answer; saving anyway. Try 'perimeter serve' for a demo backend."))
	case !snap.Success():
		spinner.Fail()
		fmt.Fprintf(out, "  %s\n\n", ui.MutedStyle().Render(fmt.Sprintf("Endpoint answered status %q; saving anyway.", snap.Status)))
	default:
		spinner.Success()
		fmt.Fprintln(out)
	}
}
