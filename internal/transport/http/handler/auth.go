package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nobzo-blog/internal/app"
	"nobzo-blog/internal/model"
	"nobzo-blog/internal/transport/http/middleware"
	"nobzo-blog/internal/transport/http/response"
	"nobzo-blog/internal/validation"
)

type AuthHandler struct {
	authService  *app.AuthService
	secureCookie bool
}

type userResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// NewAuthHandler builds the auth endpoints. secureCookie marks the session
// cookie Secure, which production deployments need.
func NewAuthHandler(authService *app.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req app.RegisterInput
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setSessionCookie(c, result.Token)
	response.Created(c, "User registered successfully", toAuthResponse(result))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req app.LoginInput
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setSessionCookie(c, result.Token)
	response.OK(c, toAuthResponse(result))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.TokenFrom(c)); err != nil {
		_ = c.Error(err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookieName, "", -1, "/", "", h.secureCookie, true)
	response.Message(c, "Logged out successfully")
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.TokenCookieName,
		token,
		int(h.authService.TokenTTL().Seconds()),
		"/",
		"",
		h.secureCookie,
		true,
	)
}

func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

func toAuthResponse(result *app.AuthResult) authResponse {
	return authResponse{
		Token: result.Token,
		User:  toUserResponse(result.User),
	}
}
