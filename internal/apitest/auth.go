package apitest

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/wanderlust/travel-portal/internal/core/domain"
)

const (
	ctxUserID  = "user_id"
	ctxIsAdmin = "is_admin"
)

// SeedUser registers an account directly and returns it.
func (b *Backend) SeedUser(email, password string, admin bool) domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	active := true
	u := domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		IsAdmin:   admin,
		IsActive:  &active,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[u.ID] = &userRecord{user: u, passwordHash: string(hash)}
	return u
}

// IssueToken signs a token for userID that expires after ttl. A negative ttl
// yields an already expired token.
func (b *Backend) IssueToken(userID string, admin bool, ttl time.Duration) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID,
		"is_admin": admin,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(b.secret))
	if err != nil {
		panic(err)
	}
	return signed
}

func (b *Backend) register(c echo.Context) error {
	var req domain.RegisterInput
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	b.mu.Lock()
	for _, r := range b.users {
		if strings.EqualFold(r.user.Email, req.Email) {
			b.mu.Unlock()
			return errUserExists
		}
	}
	b.mu.Unlock()

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}

	active := true
	u := domain.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		IsActive:  &active,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	b.mu.Lock()
	b.users[u.ID] = &userRecord{user: u, passwordHash: string(hash)}
	b.mu.Unlock()

	return c.JSON(http.StatusCreated, domain.AuthResult{
		Token: b.IssueToken(u.ID, u.IsAdmin, b.tokenTTL),
		User:  u,
	})
}

func (b *Backend) login(c echo.Context) error {
	var req domain.LoginInput
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid payload")
	}

	b.mu.Lock()
	var found *userRecord
	for _, r := range b.users {
		if strings.EqualFold(r.user.Email, req.Email) {
			found = r
			break
		}
	}
	b.mu.Unlock()

	if found == nil || bcrypt.CompareHashAndPassword([]byte(found.passwordHash), []byte(req.Password)) != nil {
		return errInvalidCredentials
	}

	return c.JSON(http.StatusOK, domain.AuthResult{
		Token: b.IssueToken(found.user.ID, found.user.IsAdmin, b.tokenTTL),
		User:  found.user,
	})
}

func (b *Backend) me(c echo.Context) error {
	id, _ := c.Get(ctxUserID).(string)

	b.mu.Lock()
	r, ok := b.users[id]
	b.mu.Unlock()
	if !ok {
		return notFound("User")
	}
	return c.JSON(http.StatusOK, r.user)
}

func (b *Backend) refresh(c echo.Context) error {
	id, _ := c.Get(ctxUserID).(string)
	admin, _ := c.Get(ctxIsAdmin).(bool)
	return c.JSON(http.StatusOK, domain.TokenRefresh{Token: b.IssueToken(id, admin, b.tokenTTL)})
}

// requireAuth validates the bearer JWT and injects the user id and admin flag.
func requireAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			sub, _ := claims.GetSubject()
			admin, _ := claims["is_admin"].(bool)
			c.Set(ctxUserID, sub)
			c.Set(ctxIsAdmin, admin)

			return next(c)
		}
	}
}

// adminOnly rejects non-admin callers; it must run after requireAuth.
func adminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if admin, _ := c.Get(ctxIsAdmin).(bool); !admin {
			return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
		}
		return next(c)
	}
}
