package models

// User is the identity record of the logged-in account as returned by /auth/me and /auth/signup
type User struct {
	ID               int64      `json:"id" example:"1"`
	Name             string     `json:"name" example:"Ada Lovelace"`
	Email            string     `json:"email" example:"ada@eduquest.dev"`
	Role             RoleType   `json:"role" example:"STUDENT"`
	CreatedAt        Timestamp  `json:"createdAt"`
	CurrentStreak    *int       `json:"currentStreak,omitempty"`
	LastActivityDate *Timestamp `json:"lastActivityDate,omitempty"`
}

// HasRole reports whether the user's role is in roles
func (u *User) HasRole(roles ...RoleType) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
