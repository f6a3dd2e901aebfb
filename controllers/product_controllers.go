package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"foodtruck-ops/apperr"
	"foodtruck-ops/cache"
	"foodtruck-ops/models"
	"foodtruck-ops/policy"
	"foodtruck-ops/utils"
)

type ProductController struct {
	DB    *gorm.DB
	Cache *cache.ProductCache
}

func NewProductController(db *gorm.DB, productCache *cache.ProductCache) *ProductController {
	return &ProductController{DB: db, Cache: productCache}
}

// GetAllProducts -> public catalog listing, optional ?category= filter
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	offset, limit := utils.ParsePageParams(c)
	category := c.Query("category")

	if products, totalCount, ok := pc.Cache.GetList(c.Request.Context(), offset, limit, category); ok {
		utils.RespondJSON(c, http.StatusOK, "List of products", gin.H{
			"products":   products,
			"pagination": utils.NewPagination(offset, limit, totalCount),
		})
		return
	}

	query := pc.DB.Model(&models.Product{})
	if category != "" {
		if !models.ProductCategory(category).Valid() {
			utils.RespondDomainError(c, apperr.Validation("unknown category %q", category))
			return
		}
		query = query.Where("category = ?", category)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var products []models.Product
	if err := query.Offset(offset).Limit(limit).Order("id").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	pc.Cache.SetList(c.Request.Context(), offset, limit, category, products, totalCount)

	utils.RespondJSON(c, http.StatusOK, "List of products", gin.H{
		"products":   products,
		"pagination": utils.NewPagination(offset, limit, totalCount),
	})
}

// GetAvailableProducts -> the public menu board: available items only
func (pc *ProductController) GetAvailableProducts(c *gin.Context) {
	var products []models.Product
	if err := pc.DB.Where("available = ?", true).Order("category, name").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available products", products)
}

func (pc *ProductController) GetProductByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("product_id"))

	if product, ok := pc.Cache.GetProduct(c.Request.Context(), uint(id)); ok {
		utils.RespondJSON(c, http.StatusOK, "Product detail", product)
		return
	}

	var product models.Product
	if err := pc.DB.First(&product, id).Error; err != nil {
		utils.RespondDomainError(c, apperr.NotFound("product %d not found", id))
		return
	}

	pc.Cache.SetProduct(c.Request.Context(), &product)
	utils.RespondJSON(c, http.StatusOK, "Product detail", product)
}

// CreateProduct -> admin only
func (pc *ProductController) CreateProduct(c *gin.Context) {
	_, role, err := currentIdentity(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	if err := policy.Check(role, policy.ResourceProducts, policy.ActionCreate); err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	type request struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		Price       *float64 `json:"price" binding:"required"`
		Category    string   `json:"category" binding:"required"`
		Available   *bool    `json:"available"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if *req.Price < 0 {
		utils.RespondDomainError(c, apperr.Validation("price must not be negative"))
		return
	}
	category := models.ProductCategory(req.Category)
	if !category.Valid() {
		utils.RespondDomainError(c, apperr.Validation("unknown category %q", req.Category))
		return
	}

	var count int64
	if err := pc.DB.Model(&models.Product{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if count > 0 {
		utils.RespondDomainError(c, apperr.Validation("product name %q already exists", req.Name))
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    category,
		Available:   available,
	}
	if err := pc.DB.Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	pc.Cache.Invalidate(c.Request.Context(), product.ID)
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

// UpdateProduct -> admin only. Catalog edits never touch snapshots held
// by existing order items.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	_, role, err := currentIdentity(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	if err := policy.Check(role, policy.ResourceProducts, policy.ActionUpdate); err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	id, _ := strconv.Atoi(c.Param("product_id"))
	var product models.Product
	if err := pc.DB.First(&product, id).Error; err != nil {
		utils.RespondDomainError(c, apperr.NotFound("product %d not found", id))
		return
	}

	type request struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Category    *string  `json:"category"`
		Available   *bool    `json:"available"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			utils.RespondDomainError(c, apperr.Validation("price must not be negative"))
			return
		}
		product.Price = *req.Price
	}
	if req.Category != nil {
		category := models.ProductCategory(*req.Category)
		if !category.Valid() {
			utils.RespondDomainError(c, apperr.Validation("unknown category %q", *req.Category))
			return
		}
		product.Category = category
	}
	if req.Available != nil {
		product.Available = *req.Available
	}

	if err := pc.DB.Save(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	pc.Cache.Invalidate(c.Request.Context(), product.ID)
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

// DeleteProduct -> admin only. Products referenced by an open order are
// never hard-deleted; the delete degrades to availability=false so
// historical line items keep a valid reference.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	_, role, err := currentIdentity(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	if err := policy.Check(role, policy.ResourceProducts, policy.ActionDelete); err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	id, _ := strconv.Atoi(c.Param("product_id"))
	var product models.Product
	if err := pc.DB.First(&product, id).Error; err != nil {
		utils.RespondDomainError(c, apperr.NotFound("product %d not found", id))
		return
	}

	var openRefs int64
	err = pc.DB.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ?", product.ID).
		Where("orders.status NOT IN ?", []models.OrderStatus{models.StatusDelivered, models.StatusCancelled}).
		Count(&openRefs).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if openRefs > 0 {
		product.Available = false
		if err := pc.DB.Save(&product).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		pc.Cache.Invalidate(c.Request.Context(), product.ID)
		utils.RespondJSON(c, http.StatusOK, "Product soft-deleted (referenced by open orders)", product)
		return
	}

	if err := pc.DB.Delete(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	pc.Cache.Invalidate(c.Request.Context(), product.ID)
	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{"product_id": id})
}
