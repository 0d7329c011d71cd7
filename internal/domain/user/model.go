package user

import "time"

const (
	RolePlayer = "PLAYER"
	RoleAdmin  = "ADMIN"
)

// Principal is the verified caller identity supplied by the identity
// collaborator on every request.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// User is the locally mirrored account row. CreatedAt is the audit-stable
// leaderboard tie-break: it is assigned monotonically at registration and
// never changes.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}
