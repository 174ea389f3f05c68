package model

// Role is the authorization role of an actor.
type Role string

const (
	RoleEmployee      Role = "EMPLOYEE"
	RoleHR            Role = "HR"
	RoleAdministrator Role = "ADMINISTRATOR"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleHR, RoleAdministrator:
		return true
	}
	return false
}

// CanDecide reports whether the role may approve or reject requests.
func (r Role) CanDecide() bool {
	return r == RoleHR || r == RoleAdministrator
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID     string `json:"id" yaml:"id" mapstructure:"id"`
	Role   Role   `json:"role" yaml:"role" mapstructure:"role"`
	TeamID string `json:"teamId,omitempty" yaml:"teamId,omitempty" mapstructure:"teamId"`
}
