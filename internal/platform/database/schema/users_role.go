package schema

// UserRoleTable represents the 'users.role' junction table
type UserRoleTable struct {
	Table  string
	UserID string
	Role   string
}

// UserRole is the schema definition for users.role
var UserRole = UserRoleTable{
	Table:  "users.role",
	UserID: "userid",
	Role:   "role",
}
