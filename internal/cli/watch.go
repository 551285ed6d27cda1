package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/perimeter/internal/config"
	"github.com/rileyhilliard/perimeter/internal/dashboard"
	perrors "github.com/rileyhilliard/perimeter/internal/errors"
	"github.com/rileyhilliard/perimeter/internal/forward"
	"github.com/rileyhilliard/perimeter/internal/logger"
	"github.com/rileyhilliard/perimeter/internal/status"
)

// debugLogFile receives log output while the TUI owns the terminal.
const debugLogFile = "perimeter-debug.log"

var (
	watchPlain    bool
	watchInterval string
	watchViews    string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live security dashboard",
	Long: `Poll the status endpoint and show the dashboard.

Keyboard shortcuts:
  1-4         Overview / Control room / Patrol guard / Event log
  tab         Next view
  l           Toggle lockdown
  r           Refresh now
  up/k down/j Scroll the event log
  ?           Show help
  q / Ctrl+C  Quit

With --plain, prints one status line per poll plus every event log entry,
which suits pipes and service logs.

Examples:
  perimeter watch
  perimeter watch --views overview,event_log
  perimeter watch --plain --interval 10s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := applyWatchFlags(cfg, watchInterval, watchViews); err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()
		return watchCommand(ctx, cfg, watchPlain, cmd.OutOrStdout())
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchPlain, "plain", false, "print text lines instead of the full-screen dashboard")
	watchCmd.Flags().StringVar(&watchInterval, "interval", "", "poll interval, overrides poll_interval (e.g. 5s)")
	watchCmd.Flags().StringVar(&watchViews, "views", "", "comma-separated views to show (overview,control_room,patrol_guard,event_log)")
	rootCmd.AddCommand(watchCmd)
}

// applyWatchFlags folds the watch-only flags into cfg and revalidates.
func applyWatchFlags(cfg *config.Config, interval, views string) error {
	if interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return durationFlagError(err, "interval", interval)
		}
		cfg.PollInterval = d
	}
	if views != "" {
		var names []string
		for _, v := range strings.Split(views, ",") {
			if v = strings.TrimSpace(v); v != "" {
				names = append(names, v)
			}
		}
		cfg.Dashboard.Views = names
	}
	return config.Validate(cfg)
}

// dashboardParts is everything a watch session needs, built from config.
type dashboardParts struct {
	board     *dashboard.Board
	presenter *dashboard.Presenter
	poller    *dashboard.Poller
	client    *status.Client
}

func buildDashboard(cfg *config.Config, commander dashboard.Commander, log logger.Logger) *dashboardParts {
	board := dashboard.NewBoard(dashboard.ParseViews(cfg.Dashboard.Views)...)
	presenter := dashboard.NewPresenter(board, dashboard.PresenterOptions{
		HistorySize: cfg.Dashboard.HistorySize,
		LogSize:     cfg.Dashboard.LogSize,
		FenceLog:    dashboard.ParseFenceLogMode(cfg.Dashboard.FenceLogging),
		Commander:   commander,
		Logger:      log,
	})
	timeout := requestTimeout(cfg)
	client := status.NewClient(cfg.Endpoint, timeout, status.WithUserAgent(userAgent()))
	return &dashboardParts{
		board:     board,
		presenter: presenter,
		poller:    dashboard.NewPoller(client, log, timeout),
		client:    client,
	}
}

// requestTimeout bounds one fetch. Zero falls back to the poll interval so a
// slow endpoint can't stack cycles.
func requestTimeout(cfg *config.Config) time.Duration {
	if cfg.RequestTimeout > 0 {
		return cfg.RequestTimeout
	}
	return cfg.PollInterval
}

// watchCommand wires the forward stack to a dashboard and runs it until ctx
// ends or the user quits.
func watchCommand(ctx context.Context, cfg *config.Config, plain bool, out io.Writer) error {
	log := logger.NewEnvLogger("[watch]")
	if !plain {
		closeLog, err := redirectLog()
		if err != nil {
			return err
		}
		defer closeLog()
	}

	stack, err := forward.Build(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stack.Close(closeCtx); err != nil {
			log.Warn("closing forward stack: %v", err)
		}
	}()

	parts := buildDashboard(cfg, stack.Commander, log)
	if stack.Forwarder != nil {
		parts.presenter.Events().Observe(stack.Forwarder.Observe)
	}

	if plain {
		return runPlain(ctx, out, parts, cfg.PollInterval)
	}
	return runTUI(ctx, cfg, parts)
}

// redirectLog keeps log output off the alt screen: to a file when
// PERIMETER_DEBUG is set, nowhere otherwise.
func redirectLog() (func(), error) {
	if !logger.DebugEnabled() {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}

	f, err := tea.LogToFile(debugLogFile, "perimeter")
	if err != nil {
		return nil, perrors.WrapWithCode(err, perrors.ErrConfig,
			fmt.Sprintf("Couldn't open %s", debugLogFile),
			"Unset PERIMETER_DEBUG or check directory permissions.")
	}
	return func() {
		f.Close()
		log.SetOutput(os.Stderr)
	}, nil
}

// runPlain prints a status line after every applied snapshot. Event log
// entries are printed as they're appended.
func runPlain(ctx context.Context, out io.Writer, parts *dashboardParts, interval time.Duration) error {
	pw := dashboard.NewPlainWriter(out, parts.board, parts.presenter.Events())
	return parts.poller.Run(ctx, interval, func(snap *status.Snapshot) {
		if parts.presenter.ApplySnapshot(snap) {
			pw.WriteStatus(time.Now().Format(dashboard.ClockLayout))
		}
	})
}

func runTUI(ctx context.Context, cfg *config.Config, parts *dashboardParts) error {
	model := dashboard.NewModel(ctx, dashboard.ModelOptions{
		Presenter:     parts.presenter,
		Board:         parts.board,
		Poller:        parts.poller,
		Endpoint:      parts.client.Endpoint(),
		PollInterval:  cfg.PollInterval,
		ClockInterval: cfg.ClockInterval,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return perrors.WrapWithCode(err, perrors.ErrConfig,
			"Dashboard exited with an error",
			"Try 'perimeter watch --plain' if your terminal can't run full-screen apps.")
	}
	return nil
}
