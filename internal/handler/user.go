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
	"photoshare/internal/middleware"
	"photoshare/internal/repository"
)

// UserHandler serves profile endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u}
}

type editProfileReq struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type adminPatchReq struct {
	Username *string  `json:"username"`
	Email    *string  `json:"email"`
	IsActive *bool    `json:"is_active"`
	Roles    []string `json:"roles"`
}

// Me returns the authenticated user's own profile.
func (h *UserHandler) Me(c echo.Context) error {
	u, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, userPart{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Roles:    rolesToNames(u.Roles),
	})
}

// Edit lets the authenticated user change username, email or password.
// Fields left out of the body keep their current value.
func (h *UserHandler) Edit(c echo.Context) error {
	u, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req editProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*req.Email))
		if !strings.Contains(e, "@") {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid email"})
		}
		req.Email = &e
	}
	var hashPtr *string
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
		}
		hashPtr = &hash
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, u.ID, req.Username, req.Email, hashPtr); err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated"})
}

// AdminPatch lets an administrator modify any account, including its
// active flag and role set. Route middleware enforces the role.
func (h *UserHandler) AdminPatch(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req adminPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Confirm the target exists first so every branch below can report
	// 404 consistently.
	if _, err := h.Users.GetByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.Username != nil || req.Email != nil {
		if err := h.Users.UpdateProfile(ctx, id, req.Username, req.Email, nil); err != nil {
			if err == repository.ErrEmailExists {
				return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	if req.IsActive != nil {
		if err := h.Users.SetActive(ctx, id, *req.IsActive); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	if len(req.Roles) > 0 {
		roles, err := auth.ParseRoleSet(strings.Join(req.Roles, ","))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
		}
		if err := h.Users.SetRoles(ctx, id, roles); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user updated"})
}
