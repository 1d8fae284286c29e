package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asaithebest/Nova/logic"
)

// UserController handles registration and login.
type UserController struct {
	logic *logic.UserLogic
}

func NewUserController(logic *logic.UserLogic) *UserController {
	return &UserController{logic: logic}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/auth/register.
func (c *UserController) Register(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := c.logic.Register(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, logic.ErrUsernameTaken) {
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (c *UserController) Login(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := c.logic.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, logic.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}
