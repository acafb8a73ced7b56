package view

import (
	"strings"

	"financehub/internal/domain"
)

// FilterUsers matches search case-insensitively against name, email and
// role. A blank search returns every user.
func FilterUsers(users []domain.User, search string) []domain.User {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if needle == "" ||
			strings.Contains(strings.ToLower(u.Name), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) ||
			strings.Contains(strings.ToLower(string(u.Role)), needle) {
			out = append(out, u)
		}
	}
	return out
}

type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Admins   int `json:"admins"`
}

func UserStats(users []domain.User) Stats {
	s := Stats{Total: len(users)}
	for _, u := range users {
		switch u.Status {
		case domain.UserStatusActive:
			s.Active++
		case domain.UserStatusInactive:
			s.Inactive++
		}
		if u.Role == domain.RoleAdmin {
			s.Admins++
		}
	}
	return s
}
