package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"financehub/internal/domain"
	"financehub/internal/view"
)

type createUserRequest struct {
	Name   string            `json:"name" binding:"required"`
	Email  string            `json:"email" binding:"required,email"`
	Role   domain.Role       `json:"role" binding:"omitempty,oneof=Admin Editor User"`
	Status domain.UserStatus `json:"status" binding:"omitempty,oneof=Active Inactive"`
}

// updateUserRequest uses pointers so absent fields stay untouched.
type updateUserRequest struct {
	Name   *string            `json:"name"`
	Email  *string            `json:"email" binding:"omitempty,email"`
	Role   *domain.Role       `json:"role" binding:"omitempty,oneof=Admin Editor User"`
	Status *domain.UserStatus `json:"status" binding:"omitempty,oneof=Active Inactive"`
}

var (
	errNameRequired  = errors.New("name is required")
	errEmailRequired = errors.New("email is required")
)

func (r updateUserRequest) input() (domain.UpdateUserInput, error) {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return domain.UpdateUserInput{}, errNameRequired
	}
	if r.Email != nil && *r.Email == "" {
		return domain.UpdateUserInput{}, errEmailRequired
	}
	return domain.UpdateUserInput{Name: r.Name, Email: r.Email, Role: r.Role, Status: r.Status}, nil
}

type usersResponse struct {
	Users []domain.User `json:"users"`
	Stats view.Stats    `json:"stats"`
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, usersResponse{
		Users: view.FilterUsers(users, c.Query("search")),
		Stats: view.UserStats(users),
	})
}

func (h *Handler) getUser(c *gin.Context) {
	user, found, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		badRequest(c, errNameRequired)
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleUser
	}
	if req.Status == "" {
		req.Status = domain.UserStatusActive
	}

	user, err := h.users.Create(c.Request.Context(), domain.CreateUserInput{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Status: req.Status,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) updateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in, err := req.input()
	if err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
