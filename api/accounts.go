package api

import (
	"net/http"

	"github.com/Domenick1991/flightapp/internal/format"
	"github.com/Domenick1991/flightapp/internal/service/account"
	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	service account.AccountUseCase
}

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Balance  int64  `json:"balance"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	Username string `json:"username"`
}

func NewAccountHandler(service account.AccountUseCase) *AccountHandler {
	return &AccountHandler{service: service}
}

// Register mounts the routes. authed must already carry RequireSession.
func (h *AccountHandler) Register(router, authed *gin.RouterGroup) {
	router.POST("/users", h.create)
	authed.POST("/login", h.login)
	authed.POST("/logout", h.logout)
}

func (h *AccountHandler) create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	name, err := h.service.CreateAccount(c.Request.Context(), account.CreateAccountInput{
		Username:       req.Username,
		Password:       req.Password,
		InitialBalance: req.Balance,
	})
	if err != nil {
		fail(c, err, format.CreateAccount(name, err))
		return
	}
	c.JSON(http.StatusCreated, userResponse{Username: name})
}

func (h *AccountHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	name, err := h.service.Login(c.Request.Context(), sessionFrom(c), req.Username, req.Password)
	if err != nil {
		fail(c, err, format.Login(name, err))
		return
	}
	c.JSON(http.StatusOK, userResponse{Username: name})
}

func (h *AccountHandler) logout(c *gin.Context) {
	if err := h.service.Logout(sessionFrom(c)); err != nil {
		fail(c, err, format.Logout(err))
		return
	}
	c.Status(http.StatusNoContent)
}
