package service

import (
	"fmt"

	"github.com/sarfraz-web/bechdo.in/internal/model"
	"github.com/sarfraz-web/bechdo.in/internal/repository/interfaces"
	"github.com/sarfraz-web/bechdo.in/internal/util"
	"go.uber.org/zap"
)

// ProductService 处理与商品相关的业务逻辑
type ProductService struct {
	productRepo interfaces.ProductRepository
	viewService *ViewService
}

// NewProductService 创建一个新的 ProductService 实例
func NewProductService(productRepo interfaces.ProductRepository, viewService *ViewService) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		viewService: viewService,
	}
}

// CreateProduct 创建新商品，状态初始化为 active，浏览次数为 0
func (s *ProductService) CreateProduct(product *model.Product, sellerID int) (*model.Product, error) {
	product.SellerID = sellerID
	product.Status = model.ProductStatusActive
	product.Views = 0

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	s.viewService.EnrichProduct(product)
	return product, nil
}

// GetProductByID 获取单个商品并填充卖家摘要
// 每次成功读取都会把浏览次数加一；返回值中的 views 是自增前的计数
func (s *ProductService) GetProductByID(id int) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("查询商品失败: %w", err)
	}
	if product == nil {
		return nil, nil
	}

	s.viewService.EnrichProduct(product)

	if err := s.productRepo.IncrementViews(id); err != nil {
		util.Logger.Error("更新商品浏览次数失败", zap.Error(err), zap.Int("product_id", id))
		return nil, fmt.Errorf("更新浏览次数失败: %w", err)
	}

	return product, nil
}

// GetProducts 按条件搜索在售商品并填充卖家摘要
func (s *ProductService) GetProducts(filter model.ProductFilter, skip, limit int) ([]*model.Product, error) {
	products, err := s.productRepo.Search(filter, skip, limit)
	if err != nil {
		return nil, err
	}
	s.viewService.EnrichProducts(products)
	return products, nil
}

// GetUserProducts 获取指定卖家的商品列表，不过滤状态
func (s *ProductService) GetUserProducts(sellerID int, skip, limit int) ([]*model.Product, error) {
	return s.productRepo.FindBySeller(sellerID, skip, limit)
}

// UpdateProduct 部分更新商品，仅限商品所有者
// id 不存在或请求者不是所有者时均返回 (nil, nil)
func (s *ProductService) UpdateProduct(id int, update *model.ProductUpdate, requesterID int) (*model.Product, error) {
	ok, err := s.productRepo.Update(id, requesterID, update)
	if err != nil {
		return nil, err
	}
	if !ok {
		util.Logger.Info("商品更新被拒绝",
			zap.Int("product_id", id),
			zap.Int("requester_id", requesterID))
		return nil, nil
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("查询商品失败: %w", err)
	}
	s.viewService.EnrichProduct(product)
	return product, nil
}

// DeleteProduct 删除商品，仅限商品所有者
// 只有确实删除了属于请求者的记录时返回 true
func (s *ProductService) DeleteProduct(id, requesterID int) (bool, error) {
	return s.productRepo.Delete(id, requesterID)
}

type ProductServiceInterface interface {
	CreateProduct(product *model.Product, sellerID int) (*model.Product, error)
	GetProductByID(id int) (*model.Product, error)
	GetProducts(filter model.ProductFilter, skip, limit int) ([]*model.Product, error)
	GetUserProducts(sellerID int, skip, limit int) ([]*model.Product, error)
	UpdateProduct(id int, update *model.ProductUpdate, requesterID int) (*model.Product, error)
	DeleteProduct(id, requesterID int) (bool, error)
}

// 确保 ProductService 实现了 ProductServiceInterface
var _ ProductServiceInterface = (*ProductService)(nil)
