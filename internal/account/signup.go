package account

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/friendbook/internal/domain"
)

// Months are the accepted birth month spellings, in calendar order.
var Months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// YearSpan is how many years back from the current one a birth year may go.
const YearSpan = 100

type SignupInput struct {
	Firstname string
	Surname   string
	Username  string
	Password  string
	Gender    string
	Day       string
	Month     string
	Year      string
}

// Signup registers a new user with empty friend and request lists. It does
// not log the user in.
func (s *Service) Signup(ctx context.Context, in SignupInput) (domain.User, error) {
	u, err := s.validate(in)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.Users.CreateUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	slog.Info("user registered", "user", u.Username)
	return s.Users.FindByUsername(ctx, u.Username)
}

func (s *Service) validate(in SignupInput) (domain.User, error) {
	in.Firstname = strings.TrimSpace(in.Firstname)
	in.Surname = strings.TrimSpace(in.Surname)
	in.Username = domain.NormalizeUsername(in.Username)
	in.Gender = strings.TrimSpace(in.Gender)
	in.Day = strings.TrimSpace(in.Day)
	in.Month = strings.TrimSpace(in.Month)
	in.Year = strings.TrimSpace(in.Year)

	fields := map[string]string{}
	required := map[string]string{
		"firstname": in.Firstname,
		"surname":   in.Surname,
		"username":  in.Username,
		"password":  in.Password,
		"day":       in.Day,
		"month":     in.Month,
		"year":      in.Year,
	}
	for name, v := range required {
		if v == "" {
			fields[name] = "required"
		}
	}

	day, err := strconv.Atoi(in.Day)
	if in.Day != "" && (err != nil || day < 1 || day > 31) {
		fields["day"] = "must be between 1 and 31"
	}
	if in.Month != "" && !validMonth(in.Month) {
		fields["month"] = "must be one of " + strings.Join(Months, ", ")
	}
	thisYear := s.now().Year()
	year, err := strconv.Atoi(in.Year)
	if in.Year != "" && (err != nil || year > thisYear || year < thisYear-YearSpan) {
		fields["year"] = fmt.Sprintf("must be between %d and %d", thisYear-YearSpan, thisYear)
	}

	if len(fields) > 0 {
		return domain.User{}, domain.NewValidationError(fields)
	}

	gender := in.Gender
	if gender == "" {
		gender = domain.DefaultGender
	}
	return domain.User{
		Username:         in.Username,
		Password:         in.Password,
		Firstname:        in.Firstname,
		Surname:          in.Surname,
		Gender:           gender,
		Birthdate:        fmt.Sprintf("%d-%s-%d", day, in.Month, year),
		Friends:          []string{},
		SentRequests:     []string{},
		ReceivedRequests: []string{},
	}, nil
}

func validMonth(m string) bool {
	for _, v := range Months {
		if v == m {
			return true
		}
	}
	return false
}
