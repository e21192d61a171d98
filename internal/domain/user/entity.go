package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Organisation-wide access
	RoleManager  Role = "manager"  // Reviews and reports on their team
	RoleEmployee Role = "employee" // Own attendance only
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Role      Role
	TeamID    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Team struct {
	ID        string
	Name      string
	ManagerID *string
	CreatedAt time.Time
}
