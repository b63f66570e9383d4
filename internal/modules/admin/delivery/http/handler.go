package handler

import (
	"net/http"

	"anoa.com/ideaboard/internal/modules/admin/dto"
	adminService "anoa.com/ideaboard/internal/modules/admin/service"
	"anoa.com/ideaboard/pkg/response"
	"anoa.com/ideaboard/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminService adminService.AdminService
}

func NewAdminHandler(adminService adminService.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	res, err := h.adminService.GetAllUsers(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *AdminHandler) GetUsersByRole(c *gin.Context) {
	res, err := h.adminService.GetUsersByRole(c.Request.Context(), c.Param("role"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *AdminHandler) GetUsersByStatus(c *gin.Context) {
	res, err := h.adminService.GetUsersByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *AdminHandler) GetUserByID(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	res, err := h.adminService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) GetUserByEmail(c *gin.Context) {
	res, err := h.adminService.GetUserByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) SearchUsers(c *gin.Context) {
	res, err := h.adminService.SearchUsers(c.Request.Context(), c.Query("term"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *AdminHandler) ToggleUserStatus(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	currentUserID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.adminService.ToggleUserStatus(c.Request.Context(), id, input.Status, currentUserID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) ActivateUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	res, err := h.adminService.ActivateUser(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User activated successfully", "user": res})
}

func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	currentUserID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.adminService.DeactivateUser(c.Request.Context(), id, currentUserID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated successfully", "user": res})
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	currentUserID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.UpdateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.adminService.UpdateUserRole(c.Request.Context(), id, input.Role, currentUserID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) GetStatistics(c *gin.Context) {
	res, err := h.adminService.GetStatistics(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func parseUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return uuid.Nil, false
	}
	return id, true
}
