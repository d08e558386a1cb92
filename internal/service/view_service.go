package service

import (
	"github.com/sarfraz-web/bechdo.in/internal/model"
	"github.com/sarfraz-web/bechdo.in/internal/repository/interfaces"
	"github.com/sarfraz-web/bechdo.in/internal/util"
	"go.uber.org/zap"
)

// ViewService 在读取时把订单和商品与其关联实体拼装成响应视图
// 每个摘要独立填充：被引用实体缺失时对应字段保持为 nil，拼装本身永不失败
type ViewService struct {
	productRepo interfaces.ProductRepository
	userRepo    interfaces.UserRepository
}

// NewViewService 创建一个新的 ViewService 实例
func NewViewService(productRepo interfaces.ProductRepository, userRepo interfaces.UserRepository) *ViewService {
	return &ViewService{
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// EnrichOrder 填充订单的商品、买家和卖家摘要
func (s *ViewService) EnrichOrder(order *model.Order) {
	if order == nil {
		return
	}

	product, err := s.productRepo.FindByID(order.ProductID)
	if err != nil {
		util.Logger.Warn("填充商品摘要失败",
			zap.Error(err),
			zap.Int("order_id", order.ID),
			zap.Int("product_id", order.ProductID))
	} else if product != nil {
		order.ProductInfo = product.Summary()
	}

	order.BuyerInfo = s.userSummary(order.BuyerID)
	order.SellerInfo = s.userSummary(order.SellerID)
}

// EnrichOrders 批量填充订单视图
func (s *ViewService) EnrichOrders(orders []*model.Order) {
	for _, order := range orders {
		s.EnrichOrder(order)
	}
}

// EnrichProduct 填充商品的卖家摘要
func (s *ViewService) EnrichProduct(product *model.Product) {
	if product == nil {
		return
	}
	product.SellerInfo = s.userSummary(product.SellerID)
}

// EnrichProducts 批量填充商品视图
func (s *ViewService) EnrichProducts(products []*model.Product) {
	for _, product := range products {
		s.EnrichProduct(product)
	}
}

func (s *ViewService) userSummary(userID int) *model.UserSummary {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		util.Logger.Warn("填充用户摘要失败", zap.Error(err), zap.Int("user_id", userID))
		return nil
	}
	if user == nil {
		return nil
	}
	return user.Summary()
}
