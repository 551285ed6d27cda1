package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/perimeter/internal/config"
	"github.com/rileyhilliard/perimeter/internal/dashboard"
	"github.com/rileyhilliard/perimeter/internal/errors"
	"github.com/rileyhilliard/perimeter/internal/status"
	"github.com/rileyhilliard/perimeter/internal/ui"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Fetch one status snapshot and print it",
	Long: `Fetch the current status once and print it the way the dashboard
would show it.

Examples:
  perimeter status
  perimeter status --json
  perimeter status --endpoint http://10.0.0.5:5000/api/status`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return statusCommand(ctx, cmd.OutOrStdout(), statusJSON)
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(statusCmd)
}

// StatusOutput is the data of perimeter status --json.
type StatusOutput struct {
	Endpoint    string           `json:"endpoint"`
	FetchedAt   time.Time        `json:"fetched_at"`
	PeopleCount int              `json:"people_count"`
	Door        string           `json:"door"`
	Fence       string           `json:"fence"`
	Temperature float64          `json:"temperature"`
	Humidity    float64          `json:"humidity"`
	Raw         *status.Snapshot `json:"raw"`
}

func statusCommand(ctx context.Context, out io.Writer, asJSON bool) error {
	cfg, err := loadConfig()
	if err != nil {
		if asJSON {
			_ = WriteJSONFromError(out, err)
		}
		return err
	}

	var spinner *ui.Spinner
	if !asJSON && isTerminal(out) {
		spinner = ui.NewSpinner(out, "Fetching "+cfg.Endpoint)
		spinner.Start()
	}

	result, err := fetchStatus(ctx, cfg)
	if spinner != nil {
		if err != nil {
			spinner.Fail()
		} else {
			spinner.Success()
		}
	}
	if err != nil {
		if asJSON {
			_ = WriteJSONFromError(out, err)
		}
		return err
	}

	if asJSON {
		return WriteJSONSuccess(out, result)
	}
	fmt.Fprint(out, renderStatus(result))
	return nil
}

// fetchStatus fetches one snapshot and runs it through a presenter so the
// output matches what the dashboard shows.
func fetchStatus(ctx context.Context, cfg *config.Config) (*StatusOutput, error) {
	client := status.NewClient(cfg.Endpoint, requestTimeout(cfg), status.WithUserAgent(userAgent()))
	snap, err := client.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if !snap.Success() {
		msg := snap.Message
		if msg == "" {
			msg = "no message"
		}
		return nil, errors.New(errors.ErrFetch,
			fmt.Sprintf("Status endpoint answered %q (%s)", snap.Status, msg),
			"Check the backend; the dashboard ignores snapshots that aren't 'success'.")
	}

	board := dashboard.NewBoard()
	presenter := dashboard.NewPresenter(board, dashboard.PresenterOptions{HistorySize: 1, LogSize: 1})
	presenter.ApplySnapshot(snap)

	latest, _ := presenter.Buffer().Latest()
	return &StatusOutput{
		Endpoint:    client.Endpoint(),
		FetchedAt:   latest.Time,
		PeopleCount: snap.ControlRoom.PeopleCount,
		Door:        board.Text(dashboard.RegionDoorValue),
		Fence:       board.Text(dashboard.RegionFenceValue),
		Temperature: latest.Temperature,
		Humidity:    latest.Humidity,
		Raw:         snap,
	}, nil
}

func renderStatus(s *StatusOutput) string {
	doorColor, fenceColor := ui.ColorSuccess, ui.ColorSuccess
	if s.Door == dashboard.DoorOpened {
		doorColor = ui.ColorError
	}
	if s.Fence == dashboard.FenceBreach {
		fenceColor = ui.ColorError
	}

	title := lipgloss.NewStyle().Bold(true).Render("Perimeter status")
	return title + "\n" + ui.RenderKeyValue([]ui.Row{
		{Key: "Endpoint", Value: s.Endpoint, Color: ui.ColorMuted},
		{Key: "People", Value: fmt.Sprintf("%d", s.PeopleCount)},
		{Key: "Door", Value: s.Door, Color: doorColor},
		{Key: "Fence", Value: s.Fence, Color: fenceColor},
		{Key: "Temperature", Value: dashboard.FormatTemperature(s.Temperature), Color: ui.ColorInfo},
		{Key: "Humidity", Value: dashboard.FormatHumidity(s.Humidity), Color: ui.ColorInfo},
	})
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
