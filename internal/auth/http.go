package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RefreshCookieName holds the refresh token between sessions.
const RefreshCookieName = "refresh_token"

const refreshCookiePath = "/v1/auth"

// RegisterRoutes mounts authentication endpoints under /auth.
func RegisterRoutes(router *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", handler.register)
		authGroup.POST("/login", handler.login)
		authGroup.POST("/refresh", handler.refresh)
		authGroup.POST("/logout", handler.logout)
	}
}

type httpHandler struct {
	service *Service
}

type registerRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8,max=72"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type authResponse struct {
	User struct {
		ID          string     `json:"id"`
		Email       string     `json:"email"`
		DisplayName *string    `json:"display_name,omitempty"`
		CreatedAt   *time.Time `json:"created_at,omitempty"`
	} `json:"user"`
	Tokens struct {
		AccessToken       string `json:"access_token"`
		AccessTokenExpiry int64  `json:"access_token_expires_at"`
	} `json:"tokens"`
}

func (h *httpHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation Error", "details": err.Error()})
		return
	}

	result, err := h.service.Register(c.Request.Context(), RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		switch err {
		case ErrEmailAlreadyExists:
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		case ErrInvalidCredentials:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		}
		return
	}

	h.setRefreshCookie(c, result.Tokens)
	c.JSON(http.StatusCreated, marshalAuthResponse(result))
}

func (h *httpHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation Error", "details": err.Error()})
		return
	}

	result, err := h.service.Login(c.Request.Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch err {
		case ErrInvalidCredentials:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to authenticate"})
		}
		return
	}

	h.setRefreshCookie(c, result.Tokens)
	c.JSON(http.StatusOK, marshalAuthResponse(result))
}

func (h *httpHandler) refresh(c *gin.Context) {
	raw, err := c.Cookie(RefreshCookieName)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing refresh token"})
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), raw)
	if err != nil {
		if err == ErrUnauthorized {
			h.clearRefreshCookie(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh session"})
		return
	}

	h.setRefreshCookie(c, result.Tokens)
	c.JSON(http.StatusOK, marshalAuthResponse(result))
}

func (h *httpHandler) logout(c *gin.Context) {
	raw, err := c.Cookie(RefreshCookieName)
	if err == nil {
		if err := h.service.Logout(c.Request.Context(), raw); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log out"})
			return
		}
	}

	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) setRefreshCookie(c *gin.Context, tokens TokenPair) {
	maxAge := int(time.Until(tokens.RefreshTokenExpiry).Seconds())
	c.SetCookie(RefreshCookieName, tokens.RefreshToken, maxAge, refreshCookiePath, "", false, true)
}

func (h *httpHandler) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(RefreshCookieName, "", -1, refreshCookiePath, "", false, true)
}

func marshalAuthResponse(result AuthResult) authResponse {
	resp := authResponse{}
	resp.User.ID = result.User.ID.String()
	resp.User.Email = result.User.Email
	resp.User.DisplayName = result.User.DisplayName
	if !result.User.CreatedAt.IsZero() {
		created := result.User.CreatedAt.UTC()
		resp.User.CreatedAt = &created
	}
	resp.Tokens.AccessToken = result.Tokens.AccessToken
	resp.Tokens.AccessTokenExpiry = result.Tokens.AccessTokenExpiry.Unix()
	return resp
}
