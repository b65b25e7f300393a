package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tubebrief/tubebrief/internal/repository"
)

// BlogHandler handles blog record endpoints.
type BlogHandler struct {
	blogs *repository.BlogRepository
}

// NewBlogHandler creates a new blog handler.
// Parameters:
//   - blogs: blog repository instance.
// Returns:
//   - *BlogHandler: initialized handler.
func NewBlogHandler(blogs *repository.BlogRepository) *BlogHandler {
	return &BlogHandler{blogs: blogs}
}

// ListBlogs handles GET /api/v1/blogs/:user_id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *BlogHandler) ListBlogs(c *gin.Context) {
	blogs, err := h.blogs.ListByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list blogs: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blogs": blogs,
		"total": len(blogs),
	})
}

// GetBlog handles GET /api/v1/blog/:blog_id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *BlogHandler) GetBlog(c *gin.Context) {
	blog, err := h.blogs.GetByID(c.Request.Context(), c.Param("blog_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Blog not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get blog: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, blog)
}
