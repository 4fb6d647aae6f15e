package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fasttrackbd/courier/internal/auth"
	"github.com/fasttrackbd/courier/internal/config"
	"github.com/fasttrackbd/courier/internal/domain/user"
	"github.com/fasttrackbd/courier/internal/http/middlewares"
	"github.com/fasttrackbd/courier/internal/security"
)

type UserStore interface {
	Create(ctx context.Context, username, passwordHash, phone, email, role string) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID, username, role string) (string, error)
}

type AuthHandler struct {
	users UserStore
	jwt   TokenIssuer
	cfg   config.Config
}

func NewAuthHandler(users UserStore, jwt TokenIssuer, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwt,
		cfg:   cfg,
	}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// only addresses on the allowed domain may register
	if !strings.HasSuffix(req.Email, h.cfg.AllowedEmailDomain) {
		RespondBadRequest(ctx, "Email must end with "+h.cfg.AllowedEmailDomain, gin.H{
			"fields": []FieldError{{Field: "email", Rule: "domain", Message: "must end with " + h.cfg.AllowedEmailDomain}},
		})
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.users.Create(ctx.Request.Context(), req.Username, hash, req.Phone, req.Email, user.RoleClient)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameTaken):
			RespondConflict(ctx, "username_taken", "Username is already taken.")
		case errors.Is(err, user.ErrPhoneTaken):
			RespondConflict(ctx, "phone_taken", "Phone number is already registered.")
		case errors.Is(err, user.ErrEmailTaken):
			RespondConflict(ctx, "email_taken", "Email is already registered.")
		default:
			RespondInternal(ctx, "Could not create user")
		}
		return
	}

	accessToken, err := h.jwt.GenerateAccessToken(u.ID, u.Username, u.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"accessToken": accessToken,
		"user":        u.Public(),
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	foundUser, err := h.users.GetByUsername(ctx.Request.Context(), req.Username)
	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	accessToken, err := h.jwt.GenerateAccessToken(foundUser.ID, foundUser.Username, foundUser.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"accessToken": accessToken,
		"user":        foundUser.Public(),
	})
}

// Me echoes the identity carried by the access token.
func (h *AuthHandler) Me(ctx *gin.Context) {
	id, _ := middlewares.UserIDFromContext(ctx)
	username, _ := middlewares.UsernameFromContext(ctx)
	role, _ := middlewares.RoleFromContext(ctx)

	if id == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":       id,
		"username": username,
		"role":     role,
	})
}

var _ TokenIssuer = (*auth.Manager)(nil)
