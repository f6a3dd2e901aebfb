package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"foodtruck-ops/apperr"
	"foodtruck-ops/models"
	"foodtruck-ops/policy"
	"foodtruck-ops/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// CreateUser -> admin registers staff/customer accounts
func (uc *UserController) CreateUser(c *gin.Context) {
	_, role, err := currentIdentity(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	if err := policy.Check(role, policy.ResourceUsers, policy.ActionCreate); err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	type request struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		FullName string `json:"full_name"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"required"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	newRole := models.Role(req.Role)
	if !newRole.Valid() {
		utils.RespondDomainError(c, apperr.Validation("unknown role %q", req.Role))
		return
	}

	var count int64
	if err := uc.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if count > 0 {
		utils.RespondDomainError(c, apperr.Validation("username or email already registered"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: string(hashed),
		Role:     newRole,
		Active:   true,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User created", user)
}

// GetAllUsers -> admin only, paginated
func (uc *UserController) GetAllUsers(c *gin.Context) {
	_, role, err := currentIdentity(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	if err := policy.Check(role, policy.ResourceUsers, policy.ActionReadAny); err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	offset, limit := utils.ParsePageParams(c)

	var totalCount int64
	if err := uc.DB.Model(&models.User{}).Count(&totalCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var users []models.User
	if err := uc.DB.Offset(offset).Limit(limit).Order("id").Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All users", gin.H{
		"users":      users,
		"pagination": utils.NewPagination(offset, limit, totalCount),
	})
}

func (uc *UserController) GetUserByID(c *gin.Context) {
	_, role, err := currentIdentity(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	if err := policy.Check(role, policy.ResourceUsers, policy.ActionReadAny); err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	id, _ := strconv.Atoi(c.Param("user_id"))
	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondDomainError(c, apperr.NotFound("user %d not found", id))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User detail", user)
}

// UpdateUser -> admin may change profile fields, role and active flag.
func (uc *UserController) UpdateUser(c *gin.Context) {
	_, role, err := currentIdentity(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	if err := policy.Check(role, policy.ResourceUsers, policy.ActionUpdate); err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	id, _ := strconv.Atoi(c.Param("user_id"))
	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondDomainError(c, apperr.NotFound("user %d not found", id))
		return
	}

	type request struct {
		Email    *string `json:"email"`
		FullName *string `json:"full_name"`
		Password *string `json:"password"`
		Role     *string `json:"role"`
		Active   *bool   `json:"active"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			utils.RespondDomainError(c, apperr.Validation("password must be at least 8 characters"))
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		user.Password = string(hashed)
	}
	if req.Role != nil {
		newRole := models.Role(*req.Role)
		if !newRole.Valid() {
			utils.RespondDomainError(c, apperr.Validation("unknown role %q", *req.Role))
			return
		}
		user.Role = newRole
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User updated", user)
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	userID, role, err := currentIdentity(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	if err := policy.Check(role, policy.ResourceUsers, policy.ActionDelete); err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	id, _ := strconv.Atoi(c.Param("user_id"))
	if uint(id) == userID {
		utils.RespondDomainError(c, apperr.Validation("cannot delete your own account"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondDomainError(c, apperr.NotFound("user %d not found", id))
		return
	}

	if err := uc.DB.Delete(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User deleted", gin.H{"user_id": id})
}

// GetProfile -> identity behind the presented token
func (uc *UserController) GetProfile(c *gin.Context) {
	userID, _, err := currentIdentity(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", user)
}
