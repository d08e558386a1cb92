package order

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sarfraz-web/bechdo.in/internal/errors"
	"github.com/sarfraz-web/bechdo.in/internal/model"
	"github.com/sarfraz-web/bechdo.in/internal/service"
	"github.com/sarfraz-web/bechdo.in/internal/util"
	"go.uber.org/zap"
)

// OrderHandler 处理订单相关的HTTP请求
type OrderHandler struct {
	orderService service.OrderServiceInterface
}

// NewOrderHandler 创建一个新的 OrderHandler 实例
func NewOrderHandler(orderService service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{orderService}
}

// Create 创建订单
func (h *OrderHandler) Create(c *gin.Context) {
	buyerID := c.GetInt("user_id")

	var input model.OrderCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的订单数据", err))
		return
	}

	order, err := h.orderService.CreateOrder(&input, buyerID)
	if err != nil {
		if errors.Is(err, errors.ErrProductNotFound) ||
			errors.Is(err, errors.ErrSelfPurchase) ||
			errors.Is(err, errors.ErrProductUnavailable) {
			errors.HandleError(c, err)
			return
		}
		util.Logger.Error("创建订单失败",
			zap.Int("buyer_id", buyerID),
			zap.Int("product_id", input.ProductID),
			zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "创建订单失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"order": order}, "订单创建成功")
}

// List 获取当前用户作为买家的订单
func (h *OrderHandler) List(c *gin.Context) {
	h.listOrders(c, true)
}

// Sales 获取当前用户作为卖家的订单
func (h *OrderHandler) Sales(c *gin.Context) {
	h.listOrders(c, false)
}

func (h *OrderHandler) listOrders(c *gin.Context, asBuyer bool) {
	userID := c.GetInt("user_id")

	skip, limit, err := parsePagination(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	filter := model.OrderFilter{
		Status:        model.OrderStatus(c.Query("status")),
		PaymentStatus: model.PaymentStatus(c.Query("payment_status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的订单状态"))
		return
	}
	if filter.PaymentStatus != "" && !filter.PaymentStatus.Valid() {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的支付状态"))
		return
	}

	orders, err := h.orderService.GetUserOrders(userID, filter, skip, limit, asBuyer)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "查询订单失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"orders": orders,
		"count":  len(orders),
	}, "")
}

// GetByID 获取订单详情，仅买卖双方可见
func (h *OrderHandler) GetByID(c *gin.Context) {
	userID := c.GetInt("user_id")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的订单ID", err))
		return
	}

	order, err := h.orderService.GetOrderByID(id)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取订单失败", err))
		return
	}
	if order == nil {
		errors.HandleError(c, errors.New(errors.ErrOrderNotFound, "Order not found"))
		return
	}

	if order.BuyerID != userID && order.SellerID != userID {
		errors.HandleError(c, errors.New(errors.ErrForbidden, "无权查看此订单"))
		return
	}

	errors.HandleSuccess(c, gin.H{"order": order}, "")
}

// Update 更新订单，仅限卖家
func (h *OrderHandler) Update(c *gin.Context) {
	requesterID := c.GetInt("user_id")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的订单ID", err))
		return
	}

	var update model.OrderUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if update.Status != nil && !update.Status.Valid() {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的订单状态"))
		return
	}
	if update.PaymentStatus != nil && !update.PaymentStatus.Valid() {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的支付状态"))
		return
	}

	order, err := h.orderService.UpdateOrder(id, &update, requesterID)
	if err != nil {
		util.Logger.Error("更新订单失败", zap.Int("order_id", id), zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "更新订单失败", err))
		return
	}
	if order == nil {
		// 订单不存在或请求者不是卖家，响应保持一致
		errors.HandleError(c, errors.New(errors.ErrOrderNotFound, "Order not found"))
		return
	}

	errors.HandleSuccess(c, gin.H{"order": order}, "订单更新成功")
}

// parsePagination 解析 skip/limit 查询参数，limit 限定在 [1, 100]
func parsePagination(c *gin.Context) (int, int, error) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		return 0, 0, errors.New(errors.ErrValidation, "无效的skip参数")
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		return 0, 0, errors.New(errors.ErrValidation, "无效的limit参数")
	}

	return skip, limit, nil
}
