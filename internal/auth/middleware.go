package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/adninrahman19-debug/SeuramoeTechV3-sub002/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. StoreID scopes every
// store-owned operation; it is empty for platform admins.
type Principal struct {
	SubjectID string
	Role      Role
	StoreID   string
}

// Middleware validates bearer tokens and attaches the principal.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.Parse(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if claims.Role != RoleAdmin && claims.StoreID == "" {
		return apperrors.NewUnauthorized("token missing store scope")
	}

	c.Locals(principalKey, &Principal{
		SubjectID: claims.Subject,
		Role:      claims.Role,
		StoreID:   claims.StoreID,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// StoreScope resolves the store a request operates on. Admins may address
// any store via the query parameter; everyone else is pinned to their own.
func StoreScope(c *fiber.Ctx, principal *Principal) string {
	if principal.Role == RoleAdmin {
		if storeID := c.Query("store_id"); storeID != "" {
			return storeID
		}
	}
	return principal.StoreID
}
