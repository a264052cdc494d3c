package models

// User is a console account as served by /api/users.
type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Enabled  bool   `json:"enabled"`
}

// UserInput is the create/update payload. Password is write-only and is
// omitted on update when left blank.
type UserInput struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role,omitempty"`
	Enabled  bool   `json:"enabled"`
}

// AssignableRoles are offered in the user forms.
var AssignableRoles = []Role{RoleAnalyst, RoleAdmin, RoleUser}
