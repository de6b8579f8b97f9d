package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"restaurant-pos/models"
	"restaurant-pos/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie carries the signed session token for the form UI
const SessionCookie = "pos_session"

const sessionKey = "session"

type Claims struct {
	UserID   uint            `json:"user_id"`
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies session tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// GenerateToken creates a signed JWT for a given user
func (i *TokenIssuer) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ParseToken verifies the signature and expiry and returns the claims
func (i *TokenIssuer) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 || !claims.Role.Valid() {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

func tokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// LoadSession puts the caller's session into the context when a valid token is present.
// Anonymous requests pass through with an empty session.
func LoadSession(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := tokenFrom(c); tok != "" {
			claims, err := issuer.ParseToken(tok)
			if err == nil {
				c.Set(sessionKey, services.Session{
					UserID:   claims.UserID,
					Username: claims.Username,
					Role:     claims.Role,
				})
			} else {
				ClearSessionCookie(c)
			}
		}
		c.Next()
	}
}

// AuthRequired sends anonymous callers to the login page
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).Authenticated() {
			c.Redirect(http.StatusSeeOther, "/login?err="+url.QueryEscape("Please log in first"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerRole := GetSession(c).Role
		for _, r := range roles {
			if callerRole == r {
				c.Next()
				return
			}
		}
		c.String(http.StatusForbidden, "Access denied. Required role(s): "+rolesString(roles))
		c.Abort()
	}
}

func rolesString(roles []models.UserRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// GetSession returns the caller's session, empty when anonymous
func GetSession(c *gin.Context) services.Session {
	val, ok := c.Get(sessionKey)
	if !ok {
		return services.Session{}
	}
	sess, _ := val.(services.Session)
	return sess
}

// SetSessionCookie stores a freshly issued token for the browser
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", false, true)
}

func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}
