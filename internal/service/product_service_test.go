package service

import (
	"testing"

	"github.com/sarfraz-web/bechdo.in/internal/model"
	"github.com/sarfraz-web/bechdo.in/internal/repository/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository 是 ProductRepository 接口的模拟实现
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(id int) (*model.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) IncrementViews(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockProductRepository) Search(filter model.ProductFilter, skip, limit int) ([]*model.Product, error) {
	args := m.Called(filter, skip, limit)
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySeller(sellerID int, skip, limit int) ([]*model.Product, error) {
	args := m.Called(sellerID, skip, limit)
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductRepository) Update(id, sellerID int, update *model.ProductUpdate) (bool, error) {
	args := m.Called(id, sellerID, update)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Delete(id, sellerID int) (bool, error) {
	args := m.Called(id, sellerID)
	return args.Bool(0), args.Error(1)
}

// 确保 MockProductRepository 实现了 ProductRepository
var _ interfaces.ProductRepository = (*MockProductRepository)(nil)

func newProductServiceForTest() (*ProductService, *MockProductRepository, *MockUserRepository) {
	productRepo := new(MockProductRepository)
	userRepo := new(MockUserRepository)
	viewService := NewViewService(productRepo, userRepo)
	return NewProductService(productRepo, viewService), productRepo, userRepo
}

// TestCreateProduct 测试商品创建时的初始状态
func TestCreateProduct(t *testing.T) {
	service, productRepo, userRepo := newProductServiceForTest()

	productRepo.On("Create", mock.AnythingOfType("*model.Product")).Return(nil)
	userRepo.On("FindByID", 7).Return(&model.User{ID: 7, Username: "alice"}, nil)

	product := &model.Product{
		Title:       "Old Bicycle",
		Description: "A sturdy bicycle",
		Price:       120.0,
		Category:    "sports",
		Condition:   model.ConditionGood,
		Status:      model.ProductStatusDraft, // 调用方传入的状态会被覆盖
		Views:       42,
	}

	created, err := service.CreateProduct(product, 7)
	assert.NoError(t, err)
	assert.Equal(t, 7, created.SellerID)
	assert.Equal(t, model.ProductStatusActive, created.Status)
	assert.Equal(t, 0, created.Views)
	assert.NotNil(t, created.SellerInfo)
	assert.Equal(t, "alice", created.SellerInfo.Username)
	productRepo.AssertExpectations(t)
}

// TestGetProductByID 测试读取商品时的浏览计数
// 返回的 views 是自增前的值，自增在读取之后执行
func TestGetProductByID(t *testing.T) {
	service, productRepo, userRepo := newProductServiceForTest()

	stored := &model.Product{ID: 1, Title: "Camera", SellerID: 7, Views: 5, Status: model.ProductStatusActive}
	productRepo.On("FindByID", 1).Return(stored, nil)
	productRepo.On("IncrementViews", 1).Return(nil)
	userRepo.On("FindByID", 7).Return(&model.User{ID: 7, Username: "alice"}, nil)

	product, err := service.GetProductByID(1)
	assert.NoError(t, err)
	assert.Equal(t, 5, product.Views)
	assert.NotNil(t, product.SellerInfo)
	productRepo.AssertExpectations(t)
}

// TestGetProductByIDNotFound 测试不存在的商品
func TestGetProductByIDNotFound(t *testing.T) {
	service, productRepo, _ := newProductServiceForTest()

	productRepo.On("FindByID", 99).Return(nil, nil)

	product, err := service.GetProductByID(99)
	assert.NoError(t, err)
	assert.Nil(t, product)
	productRepo.AssertNotCalled(t, "IncrementViews", 99)
}

// TestUpdateProductNotOwner 测试非所有者的更新请求
// 商品不存在和请求者不是所有者返回完全相同的结果
func TestUpdateProductNotOwner(t *testing.T) {
	service, productRepo, _ := newProductServiceForTest()

	title := "New title"
	update := &model.ProductUpdate{Title: &title}

	productRepo.On("Update", 1, 99, update).Return(false, nil)

	product, err := service.UpdateProduct(1, update, 99)
	assert.NoError(t, err)
	assert.Nil(t, product)
	productRepo.AssertExpectations(t)
}

// TestUpdateProduct 测试所有者的部分更新
func TestUpdateProduct(t *testing.T) {
	service, productRepo, userRepo := newProductServiceForTest()

	price := 99.5
	update := &model.ProductUpdate{Price: &price}
	updated := &model.Product{ID: 1, Title: "Camera", Price: 99.5, SellerID: 7}

	productRepo.On("Update", 1, 7, update).Return(true, nil)
	productRepo.On("FindByID", 1).Return(updated, nil)
	userRepo.On("FindByID", 7).Return(&model.User{ID: 7, Username: "alice"}, nil)

	product, err := service.UpdateProduct(1, update, 7)
	assert.NoError(t, err)
	assert.Equal(t, 99.5, product.Price)
	productRepo.AssertExpectations(t)
}

// TestUpdateProductEmptyUpdate 测试没有任何字段的更新
// 操作仍然成功，返回的商品保持原样，updated_at 不变
func TestUpdateProductEmptyUpdate(t *testing.T) {
	service, productRepo, userRepo := newProductServiceForTest()

	update := &model.ProductUpdate{}
	assert.True(t, update.IsEmpty())

	stored := &model.Product{ID: 1, Title: "Camera", Price: 80, SellerID: 7}
	productRepo.On("Update", 1, 7, update).Return(true, nil)
	productRepo.On("FindByID", 1).Return(stored, nil)
	userRepo.On("FindByID", 7).Return(&model.User{ID: 7, Username: "alice"}, nil)

	product, err := service.UpdateProduct(1, update, 7)
	assert.NoError(t, err)
	assert.Equal(t, "Camera", product.Title)
	assert.Equal(t, 80.0, product.Price)
	assert.Equal(t, stored.UpdatedAt, product.UpdatedAt)
	productRepo.AssertExpectations(t)
}

// TestDeleteProduct 测试商品删除的所有者约束
func TestDeleteProduct(t *testing.T) {
	service, productRepo, _ := newProductServiceForTest()

	productRepo.On("Delete", 1, 7).Return(true, nil)
	productRepo.On("Delete", 1, 99).Return(false, nil)

	ok, err := service.DeleteProduct(1, 7)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = service.DeleteProduct(1, 99)
	assert.NoError(t, err)
	assert.False(t, ok)
}

// TestGetProducts 测试商品搜索与视图填充
func TestGetProducts(t *testing.T) {
	service, productRepo, userRepo := newProductServiceForTest()

	filter := model.ProductFilter{Category: "sports"}
	results := []*model.Product{
		{ID: 1, Title: "Bicycle", SellerID: 7, Status: model.ProductStatusActive},
		{ID: 2, Title: "Helmet", SellerID: 8, Status: model.ProductStatusActive},
	}

	productRepo.On("Search", filter, 0, 20).Return(results, nil)
	userRepo.On("FindByID", 7).Return(&model.User{ID: 7, Username: "alice"}, nil)
	// 卖家记录缺失时摘要保持为 nil，列表本身不受影响
	userRepo.On("FindByID", 8).Return(nil, nil)

	products, err := service.GetProducts(filter, 0, 20)
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.NotNil(t, products[0].SellerInfo)
	assert.Nil(t, products[1].SellerInfo)
}
