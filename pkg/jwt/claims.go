package jwt

import "github.com/golang-jwt/jwt/v5"

type ScorerClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type Role string

const (
	RoleViewer Role = "viewer"
	RoleScorer Role = "scorer"
)

// Allows reports whether a token with role r may act as want. Scorers can view.
func (r Role) Allows(want Role) bool {
	return r == want || (r == RoleScorer && want == RoleViewer)
}
