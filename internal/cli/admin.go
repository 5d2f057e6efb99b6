package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/friendbook/internal/graph"
)

// NewDeleteUserCommand creates the delete-user command.
func NewDeleteUserCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-user <username>",
		Short: "Remove a user record",
		Long: `Remove a user record. Other users' lists and the session are left
untouched, so references to the deleted user dangle until "check --repair".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				if !yes {
					return NewExitError(ExitFailure, fmt.Sprintf("delete-user %s: pass --yes to confirm", args[0]))
				}
				if err := a.repo.DeleteUser(cmd.Context(), args[0]); err != nil {
					return err
				}
				return a.out.Success(map[string]string{"deleted": args[0]}, "Deleted "+args[0]+".")
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	return cmd
}

// CheckResult is the data reported by the check command.
type CheckResult struct {
	Anomalies []graph.Anomaly `json:"anomalies"`
	Repaired  bool            `json:"repaired"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report asymmetric or dangling friendship entries",
		Long: `Scan every user's lists for entries the other side does not mirror.

Exit codes:
  0 - Graph is consistent, or was repaired
  1 - Anomalies found (run with --repair to roll them back)
  2 - Storage error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				users, err := a.repo.ListAll(cmd.Context())
				if err != nil {
					return err
				}

				if !repair {
					anomalies := graph.Check(users)
					if len(anomalies) == 0 {
						return a.out.Success(CheckResult{Anomalies: []graph.Anomaly{}}, "Graph is consistent.")
					}
					return a.fail(ExitFailure, CodeInconsistent,
						fmt.Errorf("%d anomalies found:\n%s", len(anomalies), anomalyLines(anomalies)), anomalies)
				}

				repaired, fixed := graph.Repair(users)
				if len(fixed) == 0 {
					return a.out.Success(CheckResult{Anomalies: []graph.Anomaly{}}, "Graph is consistent.")
				}
				if err := a.repo.ReplaceAll(cmd.Context(), repaired); err != nil {
					return err
				}
				return a.out.Success(CheckResult{Anomalies: fixed, Repaired: true},
					fmt.Sprintf("Repaired %d anomalies:\n%s", len(fixed), anomalyLines(fixed)))
			})
		},
	}

	cmd.Flags().BoolVar(&repair, "repair", false, "roll back one-sided entries and rewrite the collection")
	return cmd
}

func anomalyLines(anomalies []graph.Anomaly) string {
	lines := make([]string, len(anomalies))
	for i, an := range anomalies {
		lines[i] = "  " + an.String()
	}
	return strings.Join(lines, "\n")
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Dump the raw stored keys and values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				keys, err := a.store.Keys(cmd.Context())
				if err != nil {
					return err
				}

				data := make(map[string]interface{}, len(keys))
				var text strings.Builder
				for i, k := range keys {
					v, _, err := a.store.Get(cmd.Context(), k)
					if err != nil {
						return err
					}
					if json.Valid([]byte(v)) {
						data[k] = json.RawMessage(v)
					} else {
						data[k] = v
					}
					if i > 0 {
						text.WriteByte('\n')
					}
					fmt.Fprintf(&text, "%s = %s", k, v)
				}
				return a.out.Success(data, text.String())
			})
		},
	}
}
