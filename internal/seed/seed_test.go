package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/friendbook/internal/domain"
	"github.com/roach88/friendbook/internal/repo"
	"github.com/roach88/friendbook/internal/store"
)

func TestLoad_CUE(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "demo.cue"))
	require.NoError(t, err)
	require.Len(t, f.Users, 4)

	alice := f.Users[0]
	assert.Equal(t, "alice@example.com", alice.Username)
	assert.Equal(t, "Female", alice.Gender)
	assert.Equal(t, []string{"bob@example.com"}, alice.Friends)
	assert.Equal(t, []string{}, alice.SentRequests)

	assert.Equal(t, domain.DefaultGender, f.Users[1].Gender)
}

func TestLoad_JSON(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "demo.json"))
	require.NoError(t, err)
	require.Len(t, f.Users, 1)
	assert.Equal(t, "erin@example.com", f.Users[0].Username)
	assert.Equal(t, "22-Feb-1999", f.Users[0].Birthdate)
	assert.Equal(t, domain.DefaultGender, f.Users[0].Gender)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"bad_birthdate.cue", "birthdate"},
		{"unknown_field.json", "email"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := Load(filepath.Join("testdata", tt.file))
			require.Error(t, err)

			var se *SchemaError
			require.ErrorAs(t, err, &se)
			assert.Contains(t, se.Error(), tt.want)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"a.cue", `users: [{username: "x", password: "x", firstname: "X", birthdate: "1-Jan-2000"}]`},
		{"b.cue", `users: [{username: " ", password: "x", firstname: "X", surname: "Y", birthdate: "1-Jan-2000"}]`},
		{"c.cue", `users: [{username: "x", password: "", firstname: "X", surname: "Y", birthdate: "1-Jan-2000"}]`},
		{"d.cue", `users: [{username: "x", password: "x", firstname: "X", surname: "Y", birthdate: "32-Jan-2000"}]`},
		{"e.json", `{"users": [`},
		{"f.cue", `users: {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.name, []byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParse_UnsupportedExtension(t *testing.T) {
	_, err := Parse("users.yaml", []byte("users: []"))
	assert.ErrorContains(t, err, ".cue or .json")
}

func TestParse_EmptyUsers(t *testing.T) {
	f, err := Parse("empty.cue", []byte("users: []"))
	require.NoError(t, err)
	assert.Empty(t, f.Users)
}

func TestApply(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	r := repo.New(st)
	ctx := context.Background()

	require.NoError(t, r.CreateUser(ctx, domain.User{Username: "dave@example.com", Firstname: "Existing"}))

	f, err := Load(filepath.Join("testdata", "demo.cue"))
	require.NoError(t, err)

	res, err := Apply(ctx, r, f)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com", "carol@example.com"}, res.Created)
	assert.Equal(t, []string{"dave@example.com"}, res.Skipped)
	assert.Empty(t, res.Anomalies)

	dave, err := r.FindByUsername(ctx, "dave@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Existing", dave.Firstname, "existing users are not overwritten")

	again, err := Apply(ctx, r, f)
	require.NoError(t, err)
	assert.Empty(t, again.Created)
	assert.Len(t, again.Skipped, 4)
}

func TestApply_ReportsAnomalies(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	f, err := Parse("lopsided.cue", []byte(`users: [{
	username: "a", password: "a", firstname: "A", surname: "A", birthdate: "1-Jan-2000"
	friends: ["b"]
}, {
	username: "b", password: "b", firstname: "B", surname: "B", birthdate: "1-Jan-2000"
}]`))
	require.NoError(t, err)

	res, err := Apply(context.Background(), repo.New(st), f)
	require.NoError(t, err)
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, "one_sided_friend", string(res.Anomalies[0].Kind))
}

func TestParse_TrimsUsernames(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	ctx := context.Background()

	f, err := Parse("padded.json", []byte(`{"users": [
		{"username": "alice", "password": "a", "firstname": "A", "surname": "A", "birthdate": "1-Jan-2000", "friends": [" bob "]},
		{"username": " bob ", "password": "b", "firstname": "B", "surname": "B", "birthdate": "1-Jan-2000", "friends": ["alice "]}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, "bob", f.Users[1].Username)
	assert.Equal(t, []string{"bob"}, f.Users[0].Friends)
	assert.Equal(t, []string{"alice"}, f.Users[1].Friends)

	r := repo.New(st)
	res, err := Apply(ctx, r, f)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, res.Created)
	assert.Empty(t, res.Anomalies)

	bob, err := r.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", bob.Username)
}
