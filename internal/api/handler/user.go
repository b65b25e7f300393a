package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tubebrief/tubebrief/internal/domain"
	"github.com/tubebrief/tubebrief/internal/repository"
)

// UserHandler handles user account endpoints.
type UserHandler struct {
	users *repository.UserRepository
}

// NewUserHandler creates a new user handler.
// Parameters:
//   - users: user repository instance.
// Returns:
//   - *UserHandler: initialized handler.
func NewUserHandler(users *repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

// CreateUser handles POST /api/v1/users.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	exists, err := h.users.ExistsByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to check email: " + err.Error(),
		})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{
			"error": "A user with this email already exists",
		})
		return
	}

	user := &domain.User{
		ID:    uuid.New().String(),
		Email: req.Email,
		Name:  req.Name,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create user: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser handles GET /api/v1/users/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get user: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, user)
}
