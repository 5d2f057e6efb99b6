package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/friendbook/internal/graph"
)

// Scenario is one YAML test case.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Users seeds the store before the flow runs, in order.
	Users []UserFixture `yaml:"users"`

	Flow       []FlowStep  `yaml:"flow"`
	Assertions []Assertion `yaml:"assertions"`
}

type UserFixture struct {
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password,omitempty"`
	Firstname        string   `yaml:"firstname,omitempty"`
	Surname          string   `yaml:"surname,omitempty"`
	Friends          []string `yaml:"friends,omitempty"`
	SentRequests     []string `yaml:"sent,omitempty"`
	ReceivedRequests []string `yaml:"received,omitempty"`
}

// OpRetry finishes the most recent partial write instead of running a new
// operation.
const OpRetry = "retry"

type FlowStep struct {
	Op     string `yaml:"op"`
	Actor  string `yaml:"actor,omitempty"`
	Target string `yaml:"target,omitempty"`

	// FailTargetWrite fails this step's second storage write.
	FailTargetWrite bool `yaml:"fail_target_write,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect constrains a step's outcome. Unset fields are not checked, except
// that a step with no expect clause, or with an empty Error, must not fail.
type Expect struct {
	Applied *bool  `yaml:"applied,omitempty"`
	To      string `yaml:"to,omitempty"`
	Error   string `yaml:"error,omitempty"`
}

const (
	AssertLists       = "lists"
	AssertSuggestions = "suggestions"
	AssertState       = "state"
	AssertConsistent  = "consistent"
)

type Assertion struct {
	Type string `yaml:"type"`

	// User is the subject of lists, suggestions and state.
	User string `yaml:"user,omitempty"`

	// lists: nil leaves a list unchecked, [] requires it empty.
	Friends  *[]string `yaml:"friends,omitempty"`
	Sent     *[]string `yaml:"sent,omitempty"`
	Received *[]string `yaml:"received,omitempty"`

	// suggestions
	Limit   int      `yaml:"limit,omitempty"`
	Expect  []string `yaml:"expect,omitempty"`
	Pending []string `yaml:"pending,omitempty"`

	// state
	Other string `yaml:"other,omitempty"`
	State string `yaml:"state,omitempty"`
}

// LoadScenario reads and validates a scenario file. Unknown fields are
// rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files under dir, sorted. A file
// path is returned as is.
func FindScenarios(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Users))
	for i, u := range s.Users {
		if strings.TrimSpace(u.Username) == "" {
			return fmt.Errorf("users[%d]: username is required", i)
		}
		if seen[u.Username] {
			return fmt.Errorf("users[%d]: duplicate username %q", i, u.Username)
		}
		seen[u.Username] = true
	}

	for i, step := range s.Flow {
		if step.Op == OpRetry {
			if step.FailTargetWrite {
				return fmt.Errorf("flow[%d]: fail_target_write is not allowed on retry", i)
			}
			continue
		}
		if _, err := graph.ParseOp(step.Op); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}
		if step.Actor == "" {
			return fmt.Errorf("flow[%d]: actor is required", i)
		}
		if step.Expect != nil && step.Expect.To != "" && !validState(step.Expect.To) {
			return fmt.Errorf("flow[%d].expect: unknown state %q", i, step.Expect.To)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertLists:
		if a.User == "" {
			return fmt.Errorf("assertions[%d]: user is required for lists", index)
		}
		if a.Friends == nil && a.Sent == nil && a.Received == nil {
			return fmt.Errorf("assertions[%d]: lists needs at least one of friends, sent, received", index)
		}
	case AssertSuggestions:
		if a.User == "" {
			return fmt.Errorf("assertions[%d]: user is required for suggestions", index)
		}
		if a.Limit < 0 {
			return fmt.Errorf("assertions[%d]: limit must be non-negative", index)
		}
	case AssertState:
		if a.User == "" || a.Other == "" {
			return fmt.Errorf("assertions[%d]: user and other are required for state", index)
		}
		if !validState(a.State) {
			return fmt.Errorf("assertions[%d]: unknown state %q", index, a.State)
		}
	case AssertConsistent:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func validState(s string) bool {
	for _, st := range []graph.State{graph.StateNone, graph.StateOutgoing, graph.StateIncoming, graph.StateFriends, graph.StateInconsistent} {
		if st.String() == s {
			return true
		}
	}
	return false
}
