// Package seed loads demo users from CUE or JSON fixture files.
//
// A fixture is unified with the embedded #Seed schema before anything is
// written, so a malformed file creates no users. Validation errors carry the
// file position CUE reports.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/roach88/friendbook/internal/domain"
	"github.com/roach88/friendbook/internal/graph"
)

//go:embed schema.cue
var schemaCUE string

// File is a decoded fixture.
type File struct {
	Users []domain.User `json:"users"`
}

// SchemaError is a fixture that failed validation.
type SchemaError struct {
	Message string
	Pos     token.Pos
}

func (e *SchemaError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// Load reads and validates a .cue or .json fixture.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(path, data)
}

// Parse validates data as a fixture. name picks the syntax by extension and
// is used in error positions.
func Parse(name string, data []byte) (*File, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("seed_schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("seed schema: %w", err)
	}

	var v cue.Value
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		expr, err := cuejson.Extract(name, data)
		if err != nil {
			return nil, formatCUEError(err)
		}
		v = ctx.BuildExpr(expr)
	case ".cue":
		v = ctx.CompileBytes(data, cue.Filename(name))
	default:
		return nil, fmt.Errorf("%s: seed files must be .cue or .json", name)
	}
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Seed")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var f File
	if err := unified.Decode(&f); err != nil {
		return nil, formatCUEError(err)
	}
	for i := range f.Users {
		f.Users[i] = normalizeUser(f.Users[i])
	}
	return &f, nil
}

// normalizeUser applies the username rules signup and login use, so a padded
// fixture username stays reachable.
func normalizeUser(u domain.User) domain.User {
	u = domain.Normalize(u)
	u.Username = domain.NormalizeUsername(u.Username)
	for _, l := range []*[]string{&u.Friends, &u.SentRequests, &u.ReceivedRequests} {
		for j, name := range *l {
			(*l)[j] = domain.NormalizeUsername(name)
		}
	}
	return u
}

func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	se := &SchemaError{Message: first.Error()}
	if pos := cueerrors.Positions(first); len(pos) > 0 {
		se.Pos = pos[0]
	}
	return se
}

// Users is the repository surface seeding needs.
type Users interface {
	ListAll(ctx context.Context) (domain.UserCollection, error)
	CreateUser(ctx context.Context, u domain.User) error
}

// Result reports what Apply did. Anomalies lists graph inconsistencies in
// the collection after seeding; fixtures are free to describe one-sided
// relationships, so these are reported, not refused.
type Result struct {
	Created   []string        `json:"created"`
	Skipped   []string        `json:"skipped"`
	Anomalies []graph.Anomaly `json:"anomalies"`
}

// Apply creates every fixture user whose username is free. Taken usernames
// are skipped, not overwritten.
func Apply(ctx context.Context, users Users, f *File) (Result, error) {
	res := Result{Created: []string{}, Skipped: []string{}}
	for _, u := range f.Users {
		err := users.CreateUser(ctx, u)
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			slog.Debug("seed user exists, skipping", "user", u.Username)
			res.Skipped = append(res.Skipped, u.Username)
		case err != nil:
			return res, err
		default:
			res.Created = append(res.Created, u.Username)
		}
	}

	all, err := users.ListAll(ctx)
	if err != nil {
		return res, err
	}
	res.Anomalies = graph.Check(all)
	if len(res.Anomalies) > 0 {
		slog.Warn("seeded graph is inconsistent", "anomalies", len(res.Anomalies))
	}
	return res, nil
}
