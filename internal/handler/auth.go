package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"photoshare/internal/auth"
	"photoshare/internal/config"
	"photoshare/internal/repository"
)

// AuthHandler bundles dependencies for signup, login and account
// moderation endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *auth.TokenService
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *auth.TokenService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type signupReq struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"` // defaults to ["User"]
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPart struct {
	ID       uint64   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}
type signupResp struct {
	User   userPart `json:"user"`
	Detail string   `json:"detail"`
}
type loginResp struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Expires     time.Time `json:"expires"`
}

func rolesToNames(rs auth.RoleSet) []string {
	names := make([]string, 0, len(rs))
	for _, r := range rs {
		names = append(names, string(r))
	}
	return names
}

// Signup creates a user account. Unknown role names and obviously
// invalid emails are rejected before the database is touched; a
// duplicate email surfaces as 409.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid email"})
	}
	if len(req.Roles) == 0 {
		req.Roles = []string{string(auth.RoleUser)}
	}
	var roles auth.RoleSet
	for _, name := range req.Roles {
		r, err := auth.ParseRole(name)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
		}
		if !roles.Has(r) {
			roles = append(roles, r)
		}
	}

	hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Username, req.Email, hash, roles)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "account already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusCreated, signupResp{
		User:   userPart{ID: uid, Username: req.Username, Email: req.Email, Roles: rolesToNames(roles)},
		Detail: "user successfully created",
	})
}

// Login verifies credentials and issues a bearer token. Unknown email
// and wrong password produce the same 401 so accounts cannot be
// enumerated; a banned account is reported distinctly.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "user inactive"})
	}

	token, err := h.Tokens.Issue(u.Email, h.Cfg.TokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, loginResp{
		AccessToken: token.Token,
		TokenType:   "bearer",
		Expires:     token.Exp,
	})
}

// Ban deactivates an account. Administrator only (enforced by route
// middleware). Tokens already issued to the banned user keep failing
// at the middleware because every request re-checks the active flag.
func (h *AuthHandler) Ban(c echo.Context) error {
	return h.setActive(c, false, "user banned successfully")
}

// Unban reactivates an account. Administrator only.
func (h *AuthHandler) Unban(c echo.Context) error {
	return h.setActive(c, true, "user unbanned successfully")
}

func (h *AuthHandler) setActive(c echo.Context, active bool, msg string) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.SetActive(ctx, id, active); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}
