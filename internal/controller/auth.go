package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-services/internal/models"
)

type Authenticator interface {
	Register(ctx context.Context, email, password string) (models.UserPublic, error)
	Login(ctx context.Context, email, password string) (models.LoginResult, error)
}

type AuthController struct {
	auth Authenticator
}

func NewAuthController(auth Authenticator) *AuthController {
	return &AuthController{auth: auth}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register: POST /api/auth/register
func (a *AuthController) Register(c *gin.Context) {
	var body credentials
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := a.auth.Register(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	success(c, http.StatusCreated, "User registered successfully", user)
}

// Login: POST /api/auth/login
func (a *AuthController) Login(c *gin.Context) {
	var body credentials
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	res, err := a.auth.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	success(c, http.StatusOK, "Login successful", res)
}
