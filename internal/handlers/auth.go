package handlers

import (
	"errors"
	"net/http"

	"notekit/internal/auth"
	dom "notekit/internal/domain"
	"notekit/internal/dto"
	"notekit/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles registration, login, token refresh and logout.
type AuthHandler struct {
	users  *service.UserService
	tokens *auth.Manager
	store  *auth.Store
	log    *zap.Logger
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(users *service.UserService, tokens *auth.Manager, store *auth.Store, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, store: store, log: log}
}

// Register godoc
// @Summary      Register an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Credentials"
// @Success      201   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Failure      409   {object}  dto.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		return
	}
	user, err := h.users.Register(c.Request.Context(), req.Email, req.Handle, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrHandleTaken):
			c.JSON(http.StatusConflict, dto.Error(err.Error()))
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, dto.Error("email, handle and password required"))
		default:
			c.JSON(http.StatusInternalServerError, dto.Error("registration failed"))
		}
		return
	}
	pair, ok := h.issueTokens(c, user.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, dto.OK(authResponse(user, pair)))
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Failure      401   {object}  dto.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		return
	}
	user, err := h.users.ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, dto.Error("invalid email or password"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Error("login failed"))
		return
	}
	pair, ok := h.issueTokens(c, user.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.OK(authResponse(user, pair)))
}

// Refresh godoc
// @Summary      Rotate a refresh token into a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshRequest  true  "Refresh token"
// @Success      200   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Failure      401   {object}  dto.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		return
	}
	claims, err := h.tokens.Parse(req.RefreshToken)
	if err != nil || claims.TokenType != auth.TokenTypeRefresh {
		c.JSON(http.StatusUnauthorized, dto.Error("invalid refresh token"))
		return
	}
	// Only the most recently stored refresh token is accepted; a superseded
	// one fails here even though its signature is still valid.
	ok, _, err := h.store.ValidateRefreshToken(c.Request.Context(), claims.UserID, req.RefreshToken)
	if err != nil {
		h.log.Warn("refresh token lookup failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, dto.Error("invalid refresh token"))
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Error("invalid refresh token"))
		return
	}
	pair, tokensOK := h.issueTokens(c, claims.UserID)
	if !tokensOK {
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.TokenPairResponse{AccessToken: pair.Access, RefreshToken: pair.Refresh}))
}

// Logout godoc
// @Summary      Logout: revoke the presented access token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.revokeCurrent(c)
	c.JSON(http.StatusOK, dto.OKMessage("logged out", nil))
}

// Me godoc
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Error("not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OK(userToResponse(user)))
}

// ChangePassword godoc
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ChangePasswordRequest  true  "Passwords"
// @Success      200   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Failure      401   {object}  dto.Response
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		return
	}
	err := h.users.ChangePassword(c.Request.Context(), auth.UserIDFromContext(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, dto.Error("current password is wrong"))
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.Error("not found"))
		default:
			c.JSON(http.StatusInternalServerError, dto.Error("password change failed"))
		}
		return
	}
	c.JSON(http.StatusOK, dto.OKMessage("password changed", nil))
}

// DeleteAccount godoc
// @Summary      Delete the account and everything it owns
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.Response
// @Router       /auth/account [delete]
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), auth.UserIDFromContext(c)); err != nil {
		c.JSON(http.StatusInternalServerError, dto.Error("account deletion failed"))
		return
	}
	h.revokeCurrent(c)
	c.JSON(http.StatusOK, dto.OKMessage("account deleted", nil))
}

// issueTokens signs a pair and stores the refresh token, superseding any
// previous one. Store failures are logged, not surfaced: login must not
// depend on Redis being up.
func (h *AuthHandler) issueTokens(c *gin.Context, userID int64) (auth.TokenPair, bool) {
	pair, err := h.tokens.IssuePair(userID)
	if err != nil {
		h.log.Error("token issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.Error("token issue failed"))
		return auth.TokenPair{}, false
	}
	if err := h.store.StoreRefreshToken(c.Request.Context(), userID, pair.Refresh, h.tokens.RefreshTTL()); err != nil {
		h.log.Warn("refresh token store failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	return pair, true
}

// revokeCurrent denylists the presented access token for its remaining
// lifetime and drops the stored refresh token. Best-effort.
func (h *AuthHandler) revokeCurrent(c *gin.Context) {
	raw, claims := auth.TokenFromContext(c)
	if raw == "" || claims == nil {
		return
	}
	ctx := c.Request.Context()
	if claims.ExpiresAt != nil {
		if err := h.store.BlacklistAccessToken(ctx, raw, claims.ExpiresAt.Time); err != nil {
			h.log.Warn("token denylist failed", zap.Error(err))
		}
	}
	if err := h.store.DeleteRefreshToken(ctx, claims.UserID); err != nil {
		h.log.Warn("refresh token delete failed", zap.Error(err))
	}
}

func userToResponse(u dom.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Email: u.Email, Handle: u.Handle, CreatedAt: u.CreatedAt}
}

func authResponse(u dom.User, pair auth.TokenPair) dto.AuthResponse {
	return dto.AuthResponse{
		User:              userToResponse(u),
		TokenPairResponse: dto.TokenPairResponse{AccessToken: pair.Access, RefreshToken: pair.Refresh},
	}
}
