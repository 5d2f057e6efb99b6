package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeUsername trims surrounding space and applies Unicode NFC so that
// visually identical usernames compare equal.
func NormalizeUsername(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Normalize returns u with every string in NFC and nil lists replaced by
// empty ones. Passwords are normalised too; they are compared byte-for-byte.
func Normalize(u User) User {
	u.Username = norm.NFC.String(u.Username)
	u.Password = norm.NFC.String(u.Password)
	u.Firstname = norm.NFC.String(u.Firstname)
	u.Surname = norm.NFC.String(u.Surname)
	u.Gender = norm.NFC.String(u.Gender)
	u.Birthdate = norm.NFC.String(u.Birthdate)
	u.Friends = normalizeList(u.Friends)
	u.SentRequests = normalizeList(u.SentRequests)
	u.ReceivedRequests = normalizeList(u.ReceivedRequests)
	return u
}

func normalizeList(l []string) []string {
	out := make([]string, 0, len(l))
	for _, v := range l {
		out = append(out, norm.NFC.String(v))
	}
	return out
}

// MarshalUsers encodes the collection for the "users" key. Lists are always
// emitted as arrays, never null, and HTML characters are left unescaped.
func MarshalUsers(users UserCollection) ([]byte, error) {
	out := make(UserCollection, 0, len(users))
	for _, u := range users {
		out = append(out, Normalize(u))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("marshal users: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalUsers decodes a "users" value.
func UnmarshalUsers(data []byte) (UserCollection, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return UserCollection{}, nil
	}
	var users UserCollection
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("unmarshal users: %w", err)
	}
	if users == nil {
		return UserCollection{}, nil
	}
	for i := range users {
		users[i] = Normalize(users[i])
	}
	return users, nil
}
