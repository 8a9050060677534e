package middleware

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/portaria-app/backend/internal/models"
)

// TokenIssuer identifies the service that issues all access/refresh tokens.
const TokenIssuer = "Portaria"

// Claims is the authenticated identity extracted from an access token.
// BuildingID is uuid.Nil for super admins (no tenant binding).
type Claims struct {
	UserID     uuid.UUID
	Role       models.Role
	BuildingID uuid.UUID
	CompanyID  uuid.UUID
}

// ValidateToken checks the token's signature and standard claims and
// returns the identity it carries. Any deviation returns a descriptive
// error; jwt.ErrTokenExpired is preserved so callers can distinguish it.
func ValidateToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	exp, ok := mc["exp"].(float64)
	if !ok {
		return nil, errors.New("missing expiration claim")
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, jwt.ErrTokenExpired
	}

	iss, ok := mc["iss"].(string)
	if !ok {
		return nil, errors.New("missing issuer claim")
	}
	if iss != TokenIssuer {
		return nil, errors.New("invalid token issuer")
	}

	sub, ok := mc["sub"].(string)
	if !ok {
		return nil, errors.New("missing subject claim")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("malformed subject claim")
	}

	roleStr, ok := mc["role"].(string)
	if !ok {
		return nil, errors.New("missing role claim")
	}
	role, ok := models.ParseRole(roleStr)
	if !ok {
		return nil, errors.New("unknown role claim")
	}

	claims := &Claims{UserID: userID, Role: role}

	if s, ok := mc["building_id"].(string); ok && s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, errors.New("malformed building_id claim")
		}
		claims.BuildingID = id
	}
	if role != models.RoleSuperAdmin && claims.BuildingID == uuid.Nil {
		return nil, errors.New("missing building_id claim")
	}

	if s, ok := mc["company_id"].(string); ok && s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, errors.New("malformed company_id claim")
		}
		claims.CompanyID = id
	}

	return claims, nil
}
