package models

import "strings"

// Role is the backend's authorisation role. Unknown roles are kept verbatim.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleAnalyst Role = "ANALYST"
	RoleUser    Role = "USER"
)

// Matches compares roles the way the backend does, ignoring case.
func (r Role) Matches(other Role) bool {
	return r != "" && strings.EqualFold(string(r), string(other))
}

// Credentials is the login form payload sent to POST /api/auth/login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the authenticated identity returned by the login endpoint.
type Session struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Email    string `json:"email"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role.Matches(RoleAdmin)
}

// DisplayName falls back to the e-mail when the backend omits the username.
func (s *Session) DisplayName() string {
	if s == nil {
		return ""
	}
	if s.Username != "" {
		return s.Username
	}
	return s.Email
}
