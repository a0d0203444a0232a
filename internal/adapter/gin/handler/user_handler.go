package handler

import (
	"errors"
	"io"
	"net/http"

	"user-crud-service/internal/usecase/user"
	pkgerrors "user-crud-service/pkg/errors"
	"user-crud-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Client-facing messages for non-validation failures.
const (
	MsgInvalidBody    = "Invalid request body"
	MsgEmailConflict  = "Email already exists"
	MsgUserNotFound   = "User not found"
	MsgInternalError  = "Internal server error"
	MsgDeletedSuccess = "deleted successfully"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// UserRequest represents the HTTP request body for creating or replacing a user.
// Both fields are pointers so that absent and null are distinguishable from "".
type UserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse represents a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	req, ok := h.bindUserRequest(c)
	if !ok {
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		UserInput: user.UserInput{Name: req.Name, Email: req.Email},
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(resp))
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = *toResponse(&users[i])
	}

	c.JSON(http.StatusOK, out)
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := user.ParseID(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	req, ok := h.bindUserRequest(c)
	if !ok {
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:        id,
		UserInput: user.UserInput{Name: req.Name, Email: req.Email},
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp))
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := user.ParseID(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	if err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id}); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: MsgDeletedSuccess})
}

// bindUserRequest decodes the JSON body. An empty body decodes to an empty
// request so that the field rules report the missing values.
func (h *UserHandler) bindUserRequest(c *gin.Context) (UserRequest, bool) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.WithContext(c.Request.Context(), h.log).Debug("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgInvalidBody})
		return UserRequest{}, false
	}
	return req, true
}

// handleError converts usecase errors to appropriate HTTP responses.
// Storage detail never reaches the client.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	switch status := pkgerrors.StatusOf(err); status {
	case http.StatusBadRequest:
		c.JSON(status, ErrorResponse{Error: err.Error()})
	case http.StatusNotFound:
		c.JSON(status, ErrorResponse{Error: MsgUserNotFound})
	case http.StatusConflict:
		c.JSON(status, ErrorResponse{Error: MsgEmailConflict})
	default:
		logger.WithContext(c.Request.Context(), h.log).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MsgInternalError})
	}
}

func toResponse(u *user.User) *UserResponse {
	return &UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}
