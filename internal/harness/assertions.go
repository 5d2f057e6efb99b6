package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/friendbook/internal/domain"
	"github.com/roach88/friendbook/internal/graph"
	"github.com/roach88/friendbook/internal/suggest"
)

// AssertionError is returned when an assertion fails. It carries the trace
// so a failure can be read without re-running the scenario.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			line := fmt.Sprintf("  [%d] %s %s->%s", ev.Seq, ev.Op, ev.Actor, ev.Target)
			if ev.Error != "" {
				line += " error=" + ev.Error
			} else {
				line += fmt.Sprintf(" %s->%s applied=%t", ev.From, ev.To, ev.Applied)
			}
			fmt.Fprintln(&buf, line)
		}
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion against the final collection and
// returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertLists:
		return assertLists(result, a)
	case AssertSuggestions:
		return assertSuggestions(result, a)
	case AssertState:
		return assertState(result, a)
	case AssertConsistent:
		return assertConsistent(result)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func lookup(result *Result, a Assertion, username string) (domain.User, error) {
	u, ok := result.Users.Find(username)
	if !ok {
		return domain.User{}, &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("user %q to exist", username),
			Actual:   "not found",
			Trace:    result.Trace,
		}
	}
	return u, nil
}

func assertLists(result *Result, a Assertion) error {
	u, err := lookup(result, a, a.User)
	if err != nil {
		return err
	}

	checks := []struct {
		name string
		want *[]string
		got  []string
	}{
		{"friends", a.Friends, u.Friends},
		{"sent", a.Sent, u.SentRequests},
		{"received", a.Received, u.ReceivedRequests},
	}
	for _, c := range checks {
		if c.want == nil {
			continue
		}
		if !equalLists(*c.want, c.got) {
			return &AssertionError{
				Type:     AssertLists,
				Expected: fmt.Sprintf("%s.%s = %v", a.User, c.name, *c.want),
				Actual:   fmt.Sprintf("%v", c.got),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}

func assertSuggestions(result *Result, a Assertion) error {
	u, err := lookup(result, a, a.User)
	if err != nil {
		return err
	}

	limit := a.Limit
	if limit == 0 {
		limit = suggest.DefaultLimit
	}
	got := suggest.For(u, result.Users, limit)

	if names := suggest.Usernames(got); !equalLists(a.Expect, names) {
		return &AssertionError{
			Type:     AssertSuggestions,
			Expected: fmt.Sprintf("suggestions for %s = %v", a.User, a.Expect),
			Actual:   fmt.Sprintf("%v", names),
			Trace:    result.Trace,
		}
	}

	var pending []string
	for _, s := range got {
		if s.Pending {
			pending = append(pending, s.User.Username)
		}
	}
	if !equalLists(a.Pending, pending) {
		return &AssertionError{
			Type:     AssertSuggestions,
			Expected: fmt.Sprintf("pending suggestions for %s = %v", a.User, a.Pending),
			Actual:   fmt.Sprintf("%v", pending),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertState(result *Result, a Assertion) error {
	u, err := lookup(result, a, a.User)
	if err != nil {
		return err
	}
	other, err := lookup(result, a, a.Other)
	if err != nil {
		return err
	}

	if got := graph.StateOf(u, other).String(); got != a.State {
		return &AssertionError{
			Type:     AssertState,
			Expected: fmt.Sprintf("%s toward %s is %s", a.User, a.Other, a.State),
			Actual:   got,
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertConsistent(result *Result) error {
	anomalies := graph.Check(result.Users)
	if len(anomalies) == 0 {
		return nil
	}
	descs := make([]string, 0, len(anomalies))
	for _, an := range anomalies {
		descs = append(descs, an.String())
	}
	return &AssertionError{
		Type:     AssertConsistent,
		Expected: "no anomalies",
		Actual:   strings.Join(descs, "; "),
		Trace:    result.Trace,
	}
}

// equalLists treats nil and empty as equal.
func equalLists(want, got []string) bool {
	if len(want) == 0 && len(got) == 0 {
		return true
	}
	return reflect.DeepEqual(want, got)
}
