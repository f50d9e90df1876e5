package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"heven-store/internal/domain"
	authsvc "heven-store/internal/service/auth"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Profile *domain.Profile `json:"profile"`
}

func signupHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authsvc.SignupInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		profile, err := auth.Signup(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				writeError(c, err)
				return
			}
			badRequest(c, err)
			return
		}
		c.JSON(http.StatusCreated, profile)
	}
}

func loginHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		profile, token, err := auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, authsvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, loginResponse{Token: token, Profile: profile})
	}
}

// logoutHandler revokes the session and drops every session-scoped view the
// process holds for the user, wishlist membership included.
func logoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := currentProfile(c)
		if err := deps.AuthSvc.Logout(c.Request.Context(), bearerToken(c)); err != nil {
			writeError(c, err)
			return
		}
		if profile != nil {
			deps.WishlistSvc.Forget(profile.ID)
		}
		c.Status(http.StatusNoContent)
	}
}

func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, currentProfile(c))
	}
}

func updateProfileHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authsvc.UpdateProfileInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		profile, err := auth.UpdateProfile(c.Request.Context(), currentProfile(c).ID, req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

type setRoleRequest struct {
	Role domain.Role `json:"role" binding:"required"`
}

func setRoleHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if !req.Role.Valid() {
			badRequest(c, errors.New("unknown role"))
			return
		}
		if err := auth.SetRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
