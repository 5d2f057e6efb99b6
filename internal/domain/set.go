package domain

// Contains reports whether username is in list.
func Contains(list []string, username string) bool {
	for _, v := range list {
		if v == username {
			return true
		}
	}
	return false
}

// With returns list with username appended unless already present.
func With(list []string, username string) []string {
	if Contains(list, username) {
		return list
	}
	return append(list, username)
}

// Without returns a new list holding every element of list except username.
// All occurrences are removed.
func Without(list []string, username string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != username {
			out = append(out, v)
		}
	}
	return out
}
