package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gonewx/martianblue/pkg/models"
	"github.com/gonewx/martianblue/pkg/store"
)

// 分页参数
const (
	defaultLimit = 10
	maxLimit     = 100
)

// BlogResponse 创建或更新文章的响应体
type BlogResponse struct {
	Message string      `json:"message"`
	Blog    models.Blog `json:"blog"`
}

// BlogListResponse 文章列表响应体
type BlogListResponse struct {
	Blogs      []models.Blog `json:"blogs"`
	Pagination store.Page    `json:"pagination"`
}

// positiveQuery 读取正整数查询参数，缺省时返回 def
func positiveQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return n, nil
}

func (s *Server) handleListBlogs(c *gin.Context) {
	limit, err := positiveQuery(c, "limit", defaultLimit)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}
	page, err := positiveQuery(c, "page", 1)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}
	limit = min(limit, maxLimit)

	blogs, p, err := s.repo.ListBlogs(c.Request.Context(), models.BlogFilter{
		Category:      c.Query("category"),
		Tag:           c.Query("tag"),
		PublishedOnly: true,
		Limit:         limit,
		Page:          page,
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to fetch blog posts", err)
		return
	}
	c.JSON(http.StatusOK, BlogListResponse{Blogs: blogs, Pagination: p})
}

// handleGetBlog 每次读取都会让浏览数加一
func (s *Server) handleGetBlog(c *gin.Context) {
	b, err := s.repo.IncrementViews(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(c, http.StatusNotFound, "Blog post not found", nil)
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to fetch blog post", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) handleCreateBlog(c *gin.Context) {
	var in models.BlogInput
	if err := decodeBody(c, &in); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if missing := in.Missing(); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, APIError{
			Error:   "Please provide title, excerpt, and content",
			Missing: missing,
		})
		return
	}

	b, err := s.repo.CreateBlog(c.Request.Context(), in)
	if errors.Is(err, models.ErrInvalidCategory) {
		writeError(c, http.StatusBadRequest, "Invalid blog category", err)
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to create blog post", err)
		return
	}
	c.JSON(http.StatusCreated, BlogResponse{Message: "Blog post created successfully", Blog: b})
}

func (s *Server) handleUpdateBlog(c *gin.Context) {
	var patch models.BlogPatch
	if err := decodeBody(c, &patch); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	b, err := s.repo.UpdateBlog(c.Request.Context(), c.Param("id"), patch)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(c, http.StatusNotFound, "Blog post not found", nil)
		return
	case errors.Is(err, models.ErrInvalidCategory), errors.Is(err, models.ErrEmptyField):
		writeError(c, http.StatusBadRequest, "Invalid blog update", err)
		return
	case err != nil:
		writeError(c, http.StatusInternalServerError, "Failed to update blog post", err)
		return
	}
	c.JSON(http.StatusOK, BlogResponse{Message: "Blog post updated successfully", Blog: b})
}

func (s *Server) handleDeleteBlog(c *gin.Context) {
	err := s.repo.DeleteBlog(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(c, http.StatusNotFound, "Blog post not found", nil)
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to delete blog post", err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Blog post deleted successfully"})
}
