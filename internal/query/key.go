package query

import "strings"

// Key addresses one logical query, e.g. {"users"} or {"users", "7"}.
type Key []string

func (k Key) String() string {
	return strings.Join(k, "\x1f")
}

// Entity is the first part of the key.
func (k Key) Entity() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

// HasPrefix reports whether k starts with every part of prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}
