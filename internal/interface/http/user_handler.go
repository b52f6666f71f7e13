package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/arquivolivre/user-directory/internal/application"
	"github.com/arquivolivre/user-directory/internal/domain/entity"
	"github.com/arquivolivre/user-directory/pkg/response"
	"github.com/arquivolivre/user-directory/pkg/validation"
)

const serviceName = "UserService"
const defaultRecentDays = 7

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &UserHandler{Svc: svc, Logger: logger}
}

type userRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Email string `json:"email" binding:"required,email"`
	Bio   string `json:"bio" binding:"omitempty,max=500"`
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.Svc.GetAllUsers(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetUserByID(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	email := c.Param("email")
	u, err := h.Svc.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Message(err))
		return
	}
	u, err := h.Svc.CreateUser(c.Request.Context(), entity.NewUser(req.Name, req.Email, req.Bio))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Message(err))
		return
	}
	u, err := h.Svc.UpdateUser(c.Request.Context(), id, entity.NewUser(req.Name, req.Email, req.Bio))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	deleted, err := h.Svc.DeleteUser(c.Request.Context(), id)
	if err != nil {
		h.internalError(c, err)
		return
	}
	if !deleted {
		response.Error(c, http.StatusNotFound, "user not found with id: "+strconv.FormatInt(id, 10))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SearchUsers(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		response.Error(c, http.StatusBadRequest, "search query 'name' is required")
		return
	}
	users, err := h.Svc.SearchUsers(c.Request.Context(), name)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetRecentUsers(c *gin.Context) {
	days := defaultRecentDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "days must be a positive number")
			return
		}
		days = parsed
	}
	if days <= 0 {
		response.Error(c, http.StatusBadRequest, "days must be a positive number")
		return
	}
	users, err := h.Svc.GetRecentUsers(c.Request.Context(), days)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUserCount(c *gin.Context) {
	count, err := h.Svc.GetUserCount(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.CountBody{Count: count})
}

func (h *UserHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, response.HealthBody{
		Status:    "UP",
		Service:   serviceName,
		Timestamp: strconv.FormatInt(time.Now().UnixMilli(), 10),
	})
}

func (h *UserHandler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid user id: "+c.Param("id"))
		return 0, false
	}
	return id, true
}

// serviceError maps the service sentinels onto status codes; dispatch is by
// error identity, never by message text.
func (h *UserHandler) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, userapp.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, userapp.ErrEmailTaken):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		h.internalError(c, err)
	}
}

func (h *UserHandler) internalError(c *gin.Context, err error) {
	h.Logger.WithError(err).Error("request failed")
	response.Error(c, http.StatusInternalServerError, "internal server error")
}
