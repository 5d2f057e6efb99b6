package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/friendbook/internal/account"
	"github.com/roach88/friendbook/internal/domain"
	"github.com/roach88/friendbook/internal/graph"
	"github.com/roach88/friendbook/internal/repo"
	"github.com/roach88/friendbook/internal/store"
)

// app is what one command invocation works with: the opened store and the
// services layered over it.
type app struct {
	store    *store.Store
	repo     *repo.Repository
	engine   *graph.Engine
	accounts *account.Service
	out      *OutputFormatter
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func openApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	slog.Debug("opening database", "path", opts.Config.DB)
	st, err := store.Open(opts.Config.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	r := repo.New(st)
	return &app{
		store:  st,
		repo:   r,
		engine: graph.New(r, opts.OpIDs),
		accounts: &account.Service{
			Users:           r,
			SuggestionLimit: opts.Config.Suggestions.Limit,
			Now:             opts.Now,
		},
		out: newFormatter(opts, cmd),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// withApp opens the store, runs fn and maps whatever fn returns through
// report.
func withApp(opts *RootOptions, cmd *cobra.Command, fn func(a *app) error) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.report(fn(a))
}

// report writes err through the formatter and converts it to the exit code
// its class calls for. A missing record is a notice, not a failure.
func (a *app) report(err error) error {
	if err == nil || IsReported(err) {
		return err
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		_ = a.out.Error(codeForExit(exitErr.Code), exitErr.Error(), nil)
		exitErr.Reported = true
		return exitErr
	}

	if pe, ok := graph.AsPartialWrite(err); ok {
		slog.Error("paired write left unfinished", "op_id", pe.OpID, "error", err)
		return a.fail(ExitCommandError, CodePartialWrite, err, map[string]string{"op_id": pe.OpID})
	}

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return a.fail(ExitFailure, CodeValidation, err, ve.Fields)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return a.fail(ExitFailure, CodeValidation, errors.New("invalid username or password"), nil)
	case errors.Is(err, graph.ErrAlreadyFriends):
		return a.fail(ExitFailure, CodeValidation, errors.New("you are already friends"), nil)
	case errors.Is(err, graph.ErrRequestPending):
		return a.fail(ExitFailure, CodeValidation, errors.New("a friend request is already pending"), nil)
	case errors.Is(err, domain.ErrUsernameTaken):
		return a.fail(ExitFailure, CodeValidation, errors.New("username already exists"), nil)
	case domain.IsUserError(err):
		return a.fail(ExitFailure, CodeValidation, err, nil)
	case errors.Is(err, domain.ErrNotFound):
		_ = a.out.Notice(CodeNotFound, "no such user; nothing changed")
		return nil
	case errors.Is(err, domain.ErrUnauthorized):
		return a.fail(ExitFailure, CodeUnauthorized, errors.New("not logged in"), nil)
	}

	if domain.IsStorageError(err) {
		slog.Error("storage failure", "error", err)
		return a.fail(ExitCommandError, CodeStorage, errors.New("storage failure; nothing further was changed"), nil)
	}

	slog.Error("command failed", "error", err)
	return a.fail(ExitCommandError, CodeInternal, err, nil)
}

func (a *app) fail(exit int, code string, err error, details interface{}) error {
	_ = a.out.Error(code, err.Error(), details)
	return &ExitError{Code: exit, Err: err, Reported: true}
}

func codeForExit(exit int) string {
	if exit == ExitFailure {
		return CodeValidation
	}
	return CodeInternal
}

// userView is a user as shown to other users: no password, no lists.
type userView struct {
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Surname   string `json:"surname"`
	Gender    string `json:"gender,omitempty"`
	Birthdate string `json:"birthdate,omitempty"`
}

func viewOf(u domain.User) userView {
	return userView{
		Username:  u.Username,
		Firstname: u.Firstname,
		Surname:   u.Surname,
		Gender:    u.Gender,
		Birthdate: u.Birthdate,
	}
}

func viewsOf(users []domain.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, viewOf(u))
	}
	return out
}

func displayLine(u domain.User) string {
	return fmt.Sprintf("%s (%s)", u.DisplayName(), u.Username)
}
