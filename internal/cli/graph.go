package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/friendbook/internal/graph"
)

var graphShort = map[graph.Op]string{
	graph.OpSend:     "Send a friend request",
	graph.OpCancel:   "Cancel a friend request you sent",
	graph.OpAccept:   "Accept a friend request",
	graph.OpReject:   "Reject a friend request",
	graph.OpUnfriend: "Remove a friend",
}

// NewGraphCommand creates the command for one graph operation. The logged-in
// user is the actor.
func NewGraphCommand(rootOpts *RootOptions, op graph.Op) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   string(op) + " <username>",
		Short: graphShort[op],
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				if op == graph.OpUnfriend && !yes {
					return NewExitError(ExitFailure, fmt.Sprintf("unfriend %s: pass --yes to confirm", args[0]))
				}

				me, err := a.accounts.Current(cmd.Context())
				if err != nil {
					return err
				}

				tr, err := a.runOp(cmd.Context(), op, me.Username, args[0])
				if err != nil {
					return err
				}
				return a.out.Success(tr, describeTransition(tr))
			})
		},
	}

	if op == graph.OpUnfriend {
		cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm removing the friend")
	}
	return cmd
}

// runOp performs op and, if only the actor's side was written, retries the
// other side once.
func (a *app) runOp(ctx context.Context, op graph.Op, actor, target string) (graph.Transition, error) {
	tr, err := a.engine.Do(ctx, op, actor, target)
	pe, partial := graph.AsPartialWrite(err)
	if !partial {
		return tr, err
	}

	slog.Warn("retrying unfinished write", "op_id", pe.OpID, "op", pe.Op, "actor", pe.Actor, "target", pe.Target)
	return a.engine.Retry(ctx, pe)
}

func describeTransition(tr graph.Transition) string {
	if !tr.Applied {
		return fmt.Sprintf("Nothing to do: state with %s is %s.", tr.Target, tr.To)
	}
	switch tr.Op {
	case graph.OpSend:
		return fmt.Sprintf("Friend request sent to %s.", tr.Target)
	case graph.OpCancel:
		return fmt.Sprintf("Friend request to %s cancelled.", tr.Target)
	case graph.OpAccept:
		return fmt.Sprintf("You and %s are now friends.", tr.Target)
	case graph.OpReject:
		return fmt.Sprintf("Friend request from %s rejected.", tr.Target)
	case graph.OpUnfriend:
		return fmt.Sprintf("You and %s are no longer friends.", tr.Target)
	}
	return fmt.Sprintf("%s %s: %s -> %s", tr.Op, tr.Target, tr.From, tr.To)
}
