// internal/handlers/admin.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/noblehomes/backoffice/internal/services"
	"github.com/noblehomes/backoffice/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GET /admins
func (h *AdminHandler) GetAdmins(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	admins, total, err := h.adminService.List(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(admins, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /admins
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req services.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	admin, err := h.adminService.Create(&req)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Admin created successfully",
		"admin":   admin,
	})
}

// GET /admins/:id
func (h *AdminHandler) GetAdmin(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid admin ID", nil)
		return
	}

	admin, err := h.adminService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"admin": admin,
	})
}

// POST /admins/:id/avatar
func (h *AdminHandler) UploadAvatar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid admin ID", nil)
		return
	}

	header, err := c.FormFile("avatar")
	if err != nil {
		utils.BadRequestResponse(c, "No avatar file uploaded", err.Error())
		return
	}

	admin, err := h.adminService.UploadAvatar(id, header)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Avatar uploaded successfully",
		"admin":   admin,
	})
}
