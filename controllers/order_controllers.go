package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodtruck-ops/apperr"
	"foodtruck-ops/models"
	"foodtruck-ops/policy"
	"foodtruck-ops/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

type orderItemReq struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// buildItems validates the requested lines against the catalog and
// snapshots name/price into fresh order items. Snapshots are what make
// later catalog edits irrelevant to this order.
func buildItems(tx *gorm.DB, items []orderItemReq) ([]models.OrderItem, error) {
	if len(items) == 0 {
		return nil, apperr.Validation("order must have at least one item")
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, apperr.Validation("quantity must be at least 1")
		}

		var product models.Product
		if err := tx.First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("product %d not found", item.ProductID)
			}
			return nil, err
		}
		if !product.Available {
			return nil, apperr.Validation("product %q is not available", product.Name)
		}

		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
		})
	}
	return orderItems, nil
}

// CreateOrder -> new order in created status, owned by the caller
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID, role, err := currentIdentity(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	if err := policy.Check(role, policy.ResourceOrders, policy.ActionCreate); err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	type request struct {
		Items []orderItemReq `json:"items" binding:"required"`
		Notes string         `json:"notes"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		items, err := buildItems(tx, req.Items)
		if err != nil {
			return err
		}

		order = models.Order{
			UserID:  userID,
			Locator: utils.GenerateLocator(),
			Status:  models.StatusCreated,
			Notes:   req.Notes,
		}
		order.OrderItems = items
		order.RecalculateTotal()

		return tx.Create(&order).Error
	})
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order #%d created by user %d, total=%.2f", order.ID, userID, order.TotalAmount)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetAllOrders -> admin sees everything, everyone else their own
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	userID, role, err := currentIdentity(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	offset, limit := utils.ParsePageParams(c)

	query := oc.DB.Model(&models.Order{})
	if !policy.Allow(role, policy.ResourceOrders, policy.ActionReadAny) {
		query = query.Where("user_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		parsed, err := models.ParseOrderStatus(status)
		if err != nil {
			utils.RespondDomainError(c, apperr.Validation("%v", err))
			return
		}
		query = query.Where("status = ?", parsed)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var orders []models.Order
	if err := query.Preload("OrderItems").Offset(offset).Limit(limit).Order("id").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", gin.H{
		"orders":     orders,
		"pagination": utils.NewPagination(offset, limit, totalCount),
	})
}

// GetOrderByID -> owner or admin. Foreign orders answer 404 so their
// existence never leaks to other users.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID, role, err := currentIdentity(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	id, _ := strconv.Atoi(c.Param("order_id"))
	var order models.Order
	if err := oc.DB.Preload("OrderItems").First(&order, id).Error; err != nil {
		utils.RespondDomainError(c, apperr.NotFound("order %d not found", id))
		return
	}

	if order.UserID != userID && !policy.Allow(role, policy.ResourceOrders, policy.ActionReadAny) {
		utils.RespondDomainError(c, apperr.NotFound("order %d not found", id))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus drives the state machine. The order row is locked
// for the duration of the transaction so two concurrent transitions of
// the same order serialize at the store.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	userID, role, err := currentIdentity(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	type request struct {
		Status string `json:"status" binding:"required"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	target, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		utils.RespondDomainError(c, apperr.Validation("%v", err))
		return
	}

	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order %d not found", id)
			}
			return err
		}

		// Role check first for cancels so a forbidden caller learns
		// nothing about the order's current status.
		if target == models.StatusCancelled {
			action := policy.ActionCancelAny
			if order.UserID == userID {
				action = policy.ActionCancelOwn
			}
			if err := policy.Check(role, policy.ResourceOrders, action); err != nil {
				return err
			}
		} else {
			if err := policy.Check(role, policy.ResourceOrders, policy.ActionAdvance); err != nil {
				return err
			}
		}

		if !order.Status.CanTransitionTo(target) {
			return apperr.InvalidTransition("cannot transition order from %s to %s", order.Status, target)
		}

		order.Status = target
		order.StampTransition(target, time.Now())
		return tx.Save(&order).Error
	})
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order #%d moved to %s by user %d (role=%s)", order.ID, order.Status, userID, role)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// ReplaceOrderItems swaps the full line-item set. Legal only while the
// order is still in created status; the total is recomputed in the same
// transaction.
func (oc *OrderController) ReplaceOrderItems(c *gin.Context) {
	userID, role, err := currentIdentity(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	type request struct {
		Items []orderItemReq `json:"items" binding:"required"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order %d not found", id)
			}
			return err
		}

		action := policy.ActionModifyAny
		if order.UserID == userID {
			action = policy.ActionModifyOwn
		}
		if err := policy.Check(role, policy.ResourceOrders, action); err != nil {
			return err
		}

		if order.Status != models.StatusCreated {
			return apperr.InvalidState("line items are immutable once the order leaves created status (current: %s)", order.Status)
		}

		items, err := buildItems(tx, req.Items)
		if err != nil {
			return err
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		order.OrderItems = items
		order.RecalculateTotal()
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("total_amount", order.TotalAmount).Error
	})
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order items updated", order)
}

// RateOrder -> owner scores a delivered order 1..5 (shown on the public board)
func (oc *OrderController) RateOrder(c *gin.Context) {
	userID, role, err := currentIdentity(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	type request struct {
		Rating int `json:"rating" binding:"required"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		utils.RespondDomainError(c, apperr.Validation("rating must be between 1 and 5"))
		return
	}

	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order %d not found", id)
			}
			return err
		}

		if order.UserID != userID {
			return apperr.Authorization("only the order owner may rate it")
		}
		if err := policy.Check(role, policy.ResourceOrders, policy.ActionRateOwn); err != nil {
			return err
		}
		if order.Status != models.StatusDelivered {
			return apperr.InvalidState("only delivered orders can be rated (current: %s)", order.Status)
		}

		order.Rating = &req.Rating
		return tx.Save(&order).Error
	})
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order rated", order)
}

// DeleteOrder -> admin only, terminal orders only
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	_, role, err := currentIdentity(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	if err := policy.Check(role, policy.ResourceOrders, policy.ActionDelete); err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	id, _ := strconv.Atoi(c.Param("order_id"))

	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order %d not found", id)
			}
			return err
		}

		if !order.Status.Terminal() {
			return apperr.InvalidState("only delivered or cancelled orders can be deleted (current: %s)", order.Status)
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": id})
}

// GetOrderByLocator -> public pickup board lookup; exposes status only
func (oc *OrderController) GetOrderByLocator(c *gin.Context) {
	locator := c.Param("locator")

	var order models.Order
	if err := oc.DB.Where("locator = ?", locator).Order("id DESC").First(&order).Error; err != nil {
		utils.RespondDomainError(c, apperr.NotFound("no order with locator %q", locator))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order status", gin.H{
		"locator": order.Locator,
		"status":  order.Status,
	})
}
