package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/friendbook/internal/account"
	"github.com/roach88/friendbook/internal/suggest"
)

type suggestionView struct {
	User    userView `json:"user"`
	Pending bool     `json:"pending"`
}

type dashboardView struct {
	User        userView         `json:"user"`
	FriendCount int              `json:"friend_count"`
	Friends     []userView       `json:"friends"`
	Requests    []userView       `json:"requests"`
	Suggestions []suggestionView `json:"suggestions"`
}

func dashboardViewOf(d account.Dashboard) dashboardView {
	v := dashboardView{
		User:        viewOf(d.User),
		FriendCount: d.FriendCount,
		Friends:     viewsOf(d.Friends),
		Requests:    viewsOf(d.Requests),
		Suggestions: suggestionViews(d.Suggestions),
	}
	return v
}

func suggestionViews(s []suggest.Suggestion) []suggestionView {
	out := make([]suggestionView, 0, len(s))
	for _, v := range s {
		out = append(out, suggestionView{User: viewOf(v.User), Pending: v.Pending})
	}
	return out
}

// newViewCommand builds a read-only command that renders part of the
// dashboard.
func newViewCommand(rootOpts *RootOptions, use, short string, render func(d account.Dashboard) (interface{}, string)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				d, err := a.accounts.Dashboard(cmd.Context())
				if err != nil {
					return err
				}
				data, text := render(d)
				return a.out.Success(data, text)
			})
		},
	}
}

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(rootOpts *RootOptions) *cobra.Command {
	return newViewCommand(rootOpts, "dashboard", "Show profile, friends, requests and suggestions",
		func(d account.Dashboard) (interface{}, string) {
			return dashboardViewOf(d), renderDashboard(d)
		})
}

// NewFriendsCommand creates the friends command.
func NewFriendsCommand(rootOpts *RootOptions) *cobra.Command {
	return newViewCommand(rootOpts, "friends", "List your friends",
		func(d account.Dashboard) (interface{}, string) {
			return viewsOf(d.Friends), renderFriends(d)
		})
}

// NewRequestsCommand creates the requests command.
func NewRequestsCommand(rootOpts *RootOptions) *cobra.Command {
	return newViewCommand(rootOpts, "requests", "List friend requests you have received",
		func(d account.Dashboard) (interface{}, string) {
			return viewsOf(d.Requests), renderRequests(d)
		})
}

// NewSuggestionsCommand creates the suggestions command.
func NewSuggestionsCommand(rootOpts *RootOptions) *cobra.Command {
	return newViewCommand(rootOpts, "suggestions", "List people you may know",
		func(d account.Dashboard) (interface{}, string) {
			return suggestionViews(d.Suggestions), renderSuggestions(d)
		})
}

func renderDashboard(d account.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\nFriends: %d\n\n", d.User.DisplayName(), d.User.Gender, d.FriendCount)
	b.WriteString(renderFriends(d))
	b.WriteString("\n\n")
	b.WriteString(renderRequests(d))
	b.WriteString("\n\n")
	b.WriteString(renderSuggestions(d))
	return b.String()
}

func renderFriends(d account.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Friends (%d)", d.FriendCount)
	if len(d.Friends) == 0 {
		b.WriteString("\n  No friends yet. Add some people!")
	}
	for _, u := range d.Friends {
		fmt.Fprintf(&b, "\n  %s  [unfriend]", displayLine(u))
	}
	return b.String()
}

func renderRequests(d account.Dashboard) string {
	var b strings.Builder
	b.WriteString("Friend requests")
	if len(d.Requests) == 0 {
		b.WriteString("\n  No new requests.")
	}
	for _, u := range d.Requests {
		fmt.Fprintf(&b, "\n  %s  [accept] [reject]", displayLine(u))
	}
	return b.String()
}

func renderSuggestions(d account.Dashboard) string {
	var b strings.Builder
	b.WriteString("People you may know")
	if len(d.Suggestions) == 0 {
		b.WriteString("\n  No suggestions right now.")
	}
	for _, s := range d.Suggestions {
		action := "[send]"
		if s.Pending {
			action = "[cancel request]"
		}
		fmt.Fprintf(&b, "\n  %s  %s", displayLine(s.User), action)
	}
	return b.String()
}
