package domain

// DefaultGender is stored when signup leaves gender unselected.
const DefaultGender = "Not specified"

// User is one registered identity and its side of the friendship graph.
type User struct {
	Username         string   `json:"username"`
	Password         string   `json:"password"`
	Firstname        string   `json:"firstname"`
	Surname          string   `json:"surname"`
	Gender           string   `json:"gender"`
	Birthdate        string   `json:"birthdate"`
	Friends          []string `json:"friends"`
	SentRequests     []string `json:"sentRequests"`
	ReceivedRequests []string `json:"receivedRequests"`
}

// DisplayName is the "firstname surname" shown in lists.
func (u User) DisplayName() string {
	switch {
	case u.Firstname == "":
		return u.Surname
	case u.Surname == "":
		return u.Firstname
	}
	return u.Firstname + " " + u.Surname
}

func (u User) IsFriend(username string) bool { return Contains(u.Friends, username) }

func (u User) HasSentTo(username string) bool { return Contains(u.SentRequests, username) }

func (u User) HasReceivedFrom(username string) bool {
	return Contains(u.ReceivedRequests, username)
}

// Clone returns a copy whose lists do not alias u's.
func (u User) Clone() User {
	c := u
	c.Friends = cloneList(u.Friends)
	c.SentRequests = cloneList(u.SentRequests)
	c.ReceivedRequests = cloneList(u.ReceivedRequests)
	return c
}

// UserCollection is every user record in registration order.
type UserCollection []User

// Index returns the position of username, or -1.
func (c UserCollection) Index(username string) int {
	for i := range c {
		if c[i].Username == username {
			return i
		}
	}
	return -1
}

// Find returns a copy of the record for username.
func (c UserCollection) Find(username string) (User, bool) {
	i := c.Index(username)
	if i < 0 {
		return User{}, false
	}
	return c[i].Clone(), true
}

// Usernames lists the keys in collection order.
func (c UserCollection) Usernames() []string {
	out := make([]string, 0, len(c))
	for _, u := range c {
		out = append(out, u.Username)
	}
	return out
}

func cloneList(l []string) []string {
	out := make([]string, len(l))
	copy(out, l)
	return out
}
