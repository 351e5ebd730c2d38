package domain

// UserRole is carried opaquely on the acting user; authorization decisions
// beyond authentication live outside the core.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleCSSDStaff  UserRole = "CSSD_STAFF"
	RoleUnitStaff  UserRole = "UNIT_STAFF"
	RoleSupervisor UserRole = "SUPERVISOR"
)

// Actor is the acting user handed into the core: an opaque identity plus a
// role string. Role-based authorization happens outside the engine.
type Actor struct {
	UserID string   `json:"userID"`
	Role   UserRole `json:"role"`
}

// User is an authenticated actor.
type User struct {
	UserID       string   `json:"userID"` // Primary key (UUID)
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	Role         UserRole `json:"role"`
	PasswordHash string   `json:"-"`
	IsActive     bool     `json:"isActive"`
	AuditFields
}
