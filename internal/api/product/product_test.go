package product

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sarfraz-web/bechdo.in/internal/model"
	"github.com/sarfraz-web/bechdo.in/internal/service"
	"github.com/sarfraz-web/bechdo.in/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func init() {
	util.Logger = zap.NewNop()
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("product_condition", util.ValidateProductCondition)
	}
}

// MockProductService 是 ProductServiceInterface 的模拟实现
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(product *model.Product, sellerID int) (*model.Product, error) {
	args := m.Called(product, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) GetProductByID(id int) (*model.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) GetProducts(filter model.ProductFilter, skip, limit int) ([]*model.Product, error) {
	args := m.Called(filter, skip, limit)
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductService) GetUserProducts(sellerID int, skip, limit int) ([]*model.Product, error) {
	args := m.Called(sellerID, skip, limit)
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductService) UpdateProduct(id int, update *model.ProductUpdate, requesterID int) (*model.Product, error) {
	args := m.Called(id, update, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) DeleteProduct(id, requesterID int) (bool, error) {
	args := m.Called(id, requesterID)
	return args.Bool(0), args.Error(1)
}

// 确保 MockProductService 实现了 ProductServiceInterface
var _ service.ProductServiceInterface = (*MockProductService)(nil)

func setUserID(userID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

// TestCreateProduct 测试商品发布处理器，未提供成色时默认为 good
func TestCreateProduct(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, nil)

	router := gin.New()
	router.POST("/products", setUserID(7), handler.Create)

	created := &model.Product{ID: 1, Title: "Old Bicycle", SellerID: 7, Status: model.ProductStatusActive}
	mockService.On("CreateProduct", mock.MatchedBy(func(p *model.Product) bool {
		return p.Condition == model.ConditionGood
	}), 7).Return(created, nil)

	body := []byte(`{"title": "Old Bicycle", "description": "A sturdy bicycle", "price": 120, "category": "sports"}`)
	req, _ := http.NewRequest("POST", "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

// TestListPagination 测试分页参数校验
func TestListPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, nil)

	router := gin.New()
	router.GET("/products", handler.List)

	for _, query := range []string{"limit=0", "limit=101", "skip=-1", "limit=abc"} {
		req, _ := http.NewRequest("GET", "/products?"+query, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
	mockService.AssertNotCalled(t, "GetProducts", mock.Anything, mock.Anything, mock.Anything)
}

// TestListWithFilter 测试带筛选条件的商品列表
func TestListWithFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, nil)

	router := gin.New()
	router.GET("/products", handler.List)

	minPrice := 50.0
	expected := model.ProductFilter{
		Category:  "sports",
		MinPrice:  &minPrice,
		Condition: model.ConditionGood,
	}
	results := []*model.Product{{ID: 1, Title: "Bicycle"}}
	mockService.On("GetProducts", expected, 10, 25).Return(results, nil)

	req, _ := http.NewRequest("GET", "/products?category=sports&min_price=50&condition=good&skip=10&limit=25", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Count)
	mockService.AssertExpectations(t)
}

// TestGetByIDNotFound 测试获取不存在的商品
func TestGetByIDNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, nil)

	router := gin.New()
	router.GET("/products/:id", handler.GetByID)

	mockService.On("GetProductByID", 99).Return(nil, nil)

	req, _ := http.NewRequest("GET", "/products/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestUpdateNotOwner 测试非所有者的更新请求
// 响应与商品不存在时完全一致
func TestUpdateNotOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, nil)

	router := gin.New()
	router.PUT("/products/:id", setUserID(99), handler.Update)

	mockService.On("UpdateProduct", 1, mock.AnythingOfType("*model.ProductUpdate"), 99).Return(nil, nil)

	body := []byte(`{"title": "New title"}`)
	req, _ := http.NewRequest("PUT", "/products/1", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestUpdateInvalidStatus 测试未知的商品状态值
func TestUpdateInvalidStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, nil)

	router := gin.New()
	router.PUT("/products/:id", setUserID(7), handler.Update)

	body := []byte(`{"status": "archived"}`)
	req, _ := http.NewRequest("PUT", "/products/1", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything, mock.Anything)
}

// TestDelete 测试商品删除处理器
func TestDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, nil)

	router := gin.New()
	router.DELETE("/products/:id", setUserID(7), handler.Delete)

	mockService.On("DeleteProduct", 1, 7).Return(true, nil)

	req, _ := http.NewRequest("DELETE", "/products/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
