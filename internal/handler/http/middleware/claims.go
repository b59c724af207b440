package middleware

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// Claims is the typed view of an access token.
type Claims struct {
	UserID     string
	Email      string
	EmployeeID *string
	Role       user.Role
	IsAdmin    bool
	ExpiresAt  time.Time
}

// CanActFor reports whether the caller may act for employeeID.
func (c Claims) CanActFor(employeeID string) bool {
	if c.IsAdmin {
		return true
	}
	return c.EmployeeID != nil && *c.EmployeeID == employeeID
}

// ClaimsFromContext reads the verified token claims placed by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	token, raw, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return Claims{}, auth.ErrInvalidToken
	}

	c := Claims{ExpiresAt: token.Expiration()}
	var ok bool
	if c.UserID, ok = raw["user_id"].(string); !ok || c.UserID == "" {
		return Claims{}, auth.ErrInvalidToken
	}
	c.Email, _ = raw["email"].(string)
	if role, ok := raw["role"].(string); ok {
		c.Role = user.Role(role)
	}
	c.IsAdmin, _ = raw["is_admin"].(bool)
	if employeeID, ok := raw["employee_id"].(string); ok && employeeID != "" {
		c.EmployeeID = &employeeID
	}
	return c, nil
}
