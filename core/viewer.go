package core

// Role is the capability role a viewer edits with.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAgent    Role = "agent"
	RoleEmployee Role = "employee"
)

// Viewer is the staff member using the console, as carried by the auth token.
type Viewer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsAdmin    bool   `json:"is_admin"`
	IsAgent    bool   `json:"is_agent"`
	IsEmployee bool   `json:"is_employee"`
}

// Role resolves the capability role: admin wins, then agent, and anybody else
// gets the employee restrictions.
func (v Viewer) Role() Role {
	switch {
	case v.IsAdmin:
		return RoleAdmin
	case v.IsAgent:
		return RoleAgent
	default:
		return RoleEmployee
	}
}
