package service

import (
	"fmt"

	"github.com/sarfraz-web/bechdo.in/internal/errors"
	"github.com/sarfraz-web/bechdo.in/internal/model"
	"github.com/sarfraz-web/bechdo.in/internal/repository/interfaces"
	"github.com/sarfraz-web/bechdo.in/internal/util"
	"go.uber.org/zap"
)

// OrderService 处理与订单相关的业务逻辑
type OrderService struct {
	orderRepo   interfaces.OrderRepository
	productRepo interfaces.ProductRepository
	viewService *ViewService
}

// NewOrderService 创建一个新的 OrderService 实例
func NewOrderService(
	orderRepo interfaces.OrderRepository,
	productRepo interfaces.ProductRepository,
	viewService *ViewService,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		viewService: viewService,
	}
}

// CreateOrder 创建订单
// 卖家ID与总价在此刻从商品复制，之后商品的任何变化都不再影响订单
// 商品本身不发生变化：不扣库存、不改状态
func (s *OrderService) CreateOrder(input *model.OrderCreate, buyerID int) (*model.Order, error) {
	product, err := s.productRepo.FindByID(input.ProductID)
	if err != nil {
		util.Logger.Error("查询商品失败", zap.Error(err), zap.Int("product_id", input.ProductID))
		return nil, fmt.Errorf("查询商品失败: %w", err)
	}
	if product == nil {
		return nil, errors.New(errors.ErrProductNotFound, "Product not found")
	}

	if product.SellerID == buyerID {
		util.Logger.Warn("买家尝试购买自己的商品",
			zap.Int("buyer_id", buyerID),
			zap.Int("product_id", product.ID))
		return nil, errors.New(errors.ErrSelfPurchase, "Cannot buy your own product")
	}

	if product.Status != model.ProductStatusActive {
		return nil, errors.New(errors.ErrProductUnavailable, "Product is not available for purchase")
	}

	order := &model.Order{
		ProductID:       product.ID,
		BuyerID:         buyerID,
		SellerID:        product.SellerID,
		Quantity:        input.Quantity,
		TotalPrice:      product.Price * float64(input.Quantity),
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		ShippingAddress: input.ShippingAddress,
		BuyerNotes:      input.BuyerNotes,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	s.viewService.EnrichOrder(order)
	return order, nil
}

// GetOrderByID 获取订单并填充关联视图，不存在时返回 (nil, nil)
func (s *OrderService) GetOrderByID(id int) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("查询订单失败: %w", err)
	}
	if order == nil {
		return nil, nil
	}

	s.viewService.EnrichOrder(order)
	return order, nil
}

// GetUserOrders 获取用户的订单列表
// asBuyer 为 true 时按买家维度查询，否则按卖家维度
func (s *OrderService) GetUserOrders(userID int, filter model.OrderFilter, skip, limit int, asBuyer bool) ([]*model.Order, error) {
	orders, err := s.orderRepo.FindByUser(userID, filter, skip, limit, asBuyer)
	if err != nil {
		return nil, err
	}
	s.viewService.EnrichOrders(orders)
	return orders, nil
}

// UpdateOrder 部分更新订单，仅限卖家
// 订单不存在或请求者不是卖家时均返回 (nil, nil)
func (s *OrderService) UpdateOrder(id int, update *model.OrderUpdate, requesterID int) (*model.Order, error) {
	ok, err := s.orderRepo.Update(id, requesterID, update)
	if err != nil {
		return nil, err
	}
	if !ok {
		util.Logger.Info("订单更新被拒绝",
			zap.Int("order_id", id),
			zap.Int("requester_id", requesterID))
		return nil, nil
	}

	return s.GetOrderByID(id)
}

type OrderServiceInterface interface {
	CreateOrder(input *model.OrderCreate, buyerID int) (*model.Order, error)
	GetOrderByID(id int) (*model.Order, error)
	GetUserOrders(userID int, filter model.OrderFilter, skip, limit int, asBuyer bool) ([]*model.Order, error)
	UpdateOrder(id int, update *model.OrderUpdate, requesterID int) (*model.Order, error)
}

// 确保 OrderService 实现了 OrderServiceInterface
var _ OrderServiceInterface = (*OrderService)(nil)
