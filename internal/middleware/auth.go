package middleware

import (
	"net/http"
	"strings"

	"github.com/offset122/PubInventoryTracker/internal/apierror"
	"github.com/offset122/PubInventoryTracker/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	ClaimsKey = "claims"
	ownerKey  = "owner_id"
)

// UnauthenticatedMessage is the whole body of every 401.
const UnauthenticatedMessage = "Authentication required"

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route and rejects
// tokens revoked through sessions. sessions may be nil.
func JWTAuth(secret string, sessions infra.SessionStore) gin.HandlerFunc {
	unauthorized := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(UnauthenticatedMessage))
	}
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			unauthorized(c)
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			unauthorized(c)
			return
		}

		owner, err := uuid.Parse(claims.UserID)
		if err != nil {
			unauthorized(c)
			return
		}

		if sessions != nil && claims.ID != "" {
			revoked, err := sessions.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// fail closed: a token we cannot check is not trusted
				log.Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("session store unavailable")
				unauthorized(c)
				return
			}
			if revoked {
				unauthorized(c)
				return
			}
		}

		c.Set(ClaimsKey, claims)
		c.Set(ownerKey, owner)
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}

// OwnerID is the authenticated user's id; every query is scoped by it.
func OwnerID(c *gin.Context) uuid.UUID {
	id, _ := c.MustGet(ownerKey).(uuid.UUID)
	return id
}

// SetOwner stores an owner id on the context; used by tests that bypass JWTAuth.
func SetOwner(c *gin.Context, id uuid.UUID) {
	c.Set(ClaimsKey, &JWTClaims{UserID: id.String()})
	c.Set(ownerKey, id)
}
