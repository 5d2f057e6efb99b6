package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/friendbook/internal/seed"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.cue|file.json>",
		Short: "Create demo users from a fixture file",
		Long: `Create demo users from a CUE or JSON fixture.

The file is validated against the built-in schema before anything is
written. Users whose username is taken are skipped.

Example:
  friendbook seed testdata/demo.cue`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				f, err := seed.Load(args[0])
				if err != nil {
					var se *seed.SchemaError
					switch {
					case errors.As(err, &se):
						return a.fail(ExitFailure, CodeValidation, err, nil)
					case errors.Is(err, fs.ErrNotExist):
						return WrapExitError(ExitCommandError, "seed file not found", err)
					}
					return WrapExitError(ExitFailure, "invalid seed file", err)
				}

				res, err := seed.Apply(cmd.Context(), a.repo, f)
				if err != nil {
					return err
				}
				return a.out.Success(res, seedSummary(res))
			})
		},
	}
}

func seedSummary(res seed.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Created %d users", len(res.Created))
	if len(res.Skipped) > 0 {
		fmt.Fprintf(&b, ", skipped %d existing (%s)", len(res.Skipped), strings.Join(res.Skipped, ", "))
	}
	b.WriteByte('.')
	if len(res.Anomalies) > 0 {
		fmt.Fprintf(&b, "\nWarning: %d anomalies in the seeded graph:\n%s", len(res.Anomalies), anomalyLines(res.Anomalies))
	}
	return b.String()
}
