package middleware

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"HomeList/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// SecretKey signs every token. main overrides it from JWT_SECRET.
var SecretKey = "secret"

const (
	CookieName = "jwt"
	SessionTTL = 7 * 24 * time.Hour
	ResetTTL   = time.Hour

	SessionAudience = "session"
	ResetAudience   = "password-reset"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// IssueToken signs a token for userID. The user id travels in the issuer
// claim and the audience separates sessions from reset links.
func IssueToken(userID uint, audience string, ttl time.Duration) (string, error) {
	return issue(userID, audience, ttl, "")
}

func issue(userID uint, audience string, ttl time.Duration, id string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    strconv.FormatUint(uint64(userID), 10),
		ID:        id,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(SecretKey))
}

// ParseToken validates raw and returns the user id it was issued for.
func ParseToken(raw, audience string) (uint, error) {
	id, _, err := parseClaims(raw, audience)
	return id, err
}

func parseClaims(raw, audience string) (uint, *jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(SecretKey), nil
	})
	if err != nil || !token.Valid {
		return 0, nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !claims.VerifyAudience(audience, true) {
		return 0, nil, ErrInvalidToken
	}
	id, err := strconv.ParseUint(claims.Issuer, 10, 64)
	if err != nil || id == 0 {
		return 0, nil, ErrInvalidToken
	}
	return uint(id), claims, nil
}

// IssueResetToken signs a password reset token tied to the user's current
// password hash, so the link stops working once the password changes.
func IssueResetToken(user Models.User) (string, error) {
	return issue(user.ID, ResetAudience, ResetTTL, passwordBinding(user.PasswordHash))
}

// ParseResetToken validates a reset token and checks it still matches the
// user's password hash.
func ParseResetToken(ctx context.Context, db *gorm.DB, raw string) (uint, error) {
	userID, claims, err := parseClaims(raw, ResetAudience)
	if err != nil {
		return 0, err
	}
	var user Models.User
	if err := db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return 0, ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(claims.ID), []byte(passwordBinding(user.PasswordHash))) != 1 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

func passwordBinding(hash []byte) string {
	sum := sha256.Sum256(hash)
	return hex.EncodeToString(sum[:16])
}

// SessionCookie builds the login cookie. An empty token clears it.
func SessionCookie(token string, secure bool) *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(SessionTTL),
	}
	if token == "" {
		cookie.Expires = time.Now().Add(-time.Hour)
	}
	return cookie
}

func tokenFrom(c *fiber.Ctx) string {
	if cookie := c.Cookies(CookieName); cookie != "" {
		return cookie
	}
	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// Verify loads the user named by the session token into c.Locals("user").
// With a non-empty loginPath unauthenticated page requests are redirected
// there instead of getting a 401.
func Verify(db *gorm.DB, loginPath string) fiber.Handler {
	deny := func(c *fiber.Ctx, message string) error {
		if loginPath != "" {
			return c.Redirect(loginPath)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": message,
		})
	}

	return func(c *fiber.Ctx) error {
		raw := tokenFrom(c)
		if raw == "" {
			return deny(c, "Not Logged In.")
		}
		userID, err := ParseToken(raw, SessionAudience)
		if err != nil {
			return deny(c, "Invalid or expired token")
		}

		var user Models.User
		if err := db.WithContext(c.UserContext()).First(&user, userID).Error; err != nil {
			return deny(c, "User not found")
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// RequireAdmin must run after Verify.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "forbidden",
				"message": "Insufficient permissions to access this resource",
			})
		}
		return c.Next()
	}
}

func CurrentUser(c *fiber.Ctx) (Models.User, bool) {
	user, ok := c.Locals("user").(Models.User)
	return user, ok
}
