package harness

import "github.com/roach88/friendbook/internal/domain"

// TraceEvent records one flow step. From and To are empty when the step
// failed before the pair could be read.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	OpID    string `json:"op_id,omitempty"`
	Op      string `json:"op"`
	Actor   string `json:"actor"`
	Target  string `json:"target"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Applied bool   `json:"applied"`
	Error   string `json:"error,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`

	// Users is the collection as stored after the last step.
	Users domain.UserCollection `json:"users"`
}

func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
