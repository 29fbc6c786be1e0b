package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"bluecarbon/verification-portal/internal/profiles"
)

const ctxProfile = "profile"

// Claims are the token claims issued by the platform's identity service.
// Only the subject is trusted; the role is re-read from the profile
// store on every request so revocations take effect immediately.
type Claims struct {
	jwt.RegisteredClaims
}

// Middleware validates bearer tokens and gates routes by role
type Middleware struct {
	secret   []byte
	profiles profiles.Repository
}

// NewMiddleware creates auth middleware with the shared signing secret
func NewMiddleware(secret string, profileRepo profiles.Repository) *Middleware {
	return &Middleware{secret: []byte(secret), profiles: profileRepo}
}

// RequireAuth validates the Authorization header, resolves the acting
// profile and stores it on the request context.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
			func(t *jwt.Token) (interface{}, error) {
				return m.secret, nil
			},
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		profileID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
			return
		}

		profile, err := m.profiles.GetByID(c.Request.Context(), profileID)
		if errors.Is(err, profiles.ErrProfileNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown profile"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
			return
		}

		c.Set(ctxProfile, profile)
		c.Next()
	}
}

// RequireReviewer restricts a route to verifier and admin profiles.
// Mirrors the store-side policy; the database rejects these writes for
// other roles anyway.
func (m *Middleware) RequireReviewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := ActingProfile(c)
		if profile == nil || !profile.CanReview() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "verifier role required"})
			return
		}
		c.Next()
	}
}

// ActingProfile returns the profile stored by RequireAuth, or nil.
func ActingProfile(c *gin.Context) *profiles.Profile {
	if v, ok := c.Get(ctxProfile); ok {
		if p, ok := v.(*profiles.Profile); ok {
			return p
		}
	}
	return nil
}

// ProfileID returns the acting profile id stored by RequireAuth.
func ProfileID(c *gin.Context) uuid.UUID {
	if p := ActingProfile(c); p != nil {
		return p.ID
	}
	return uuid.Nil
}

// Role returns the acting profile's role stored by RequireAuth.
func Role(c *gin.Context) string {
	if p := ActingProfile(c); p != nil {
		return p.Role
	}
	return ""
}
