package ledger

// =============================================================================
// SESSION - explicit operator identity, threaded into every engine call
// =============================================================================

// Role is resolved by the authentication collaborator from the shared
// PIN. The engine never sees the secret, only the resolved role.
type Role string

const (
	RoleOperator      Role = "OPERATOR"
	RoleAdministrator Role = "ADMINISTRATOR"
)

// Session identifies who is operating the till. It is an explicit value
// passed into every mutating operation - the engine holds no ambient
// "current user" state.
type Session struct {
	Operator string
	Shift    string // e.g. "Mañana", "Tarde"
	Role     Role
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdministrator
}
