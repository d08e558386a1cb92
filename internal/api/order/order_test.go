package order

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sarfraz-web/bechdo.in/internal/errors"
	"github.com/sarfraz-web/bechdo.in/internal/model"
	"github.com/sarfraz-web/bechdo.in/internal/service"
	"github.com/sarfraz-web/bechdo.in/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func init() {
	util.Logger = zap.NewNop()
}

// MockOrderService 是 OrderServiceInterface 的模拟实现
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(input *model.OrderCreate, buyerID int) (*model.Order, error) {
	args := m.Called(input, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetOrderByID(id int) (*model.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetUserOrders(userID int, filter model.OrderFilter, skip, limit int, asBuyer bool) ([]*model.Order, error) {
	args := m.Called(userID, filter, skip, limit, asBuyer)
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrder(id int, update *model.OrderUpdate, requesterID int) (*model.Order, error) {
	args := m.Called(id, update, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// 确保 MockOrderService 实现了 OrderServiceInterface
var _ service.OrderServiceInterface = (*MockOrderService)(nil)

func setUserID(userID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

// TestCreateOrder 测试订单创建处理器
func TestCreateOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)

	router := gin.New()
	router.POST("/orders", setUserID(3), handler.Create)

	created := &model.Order{ID: 1, ProductID: 10, BuyerID: 3, SellerID: 7, TotalPrice: 451.5}
	mockService.On("CreateOrder", mock.AnythingOfType("*model.OrderCreate"), 3).Return(created, nil)

	body := []byte(`{"product_id": 10, "quantity": 3, "shipping_address": "42 Main St"}`)
	req, _ := http.NewRequest("POST", "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

// TestCreateOrderSelfPurchase 测试购买自己的商品时的响应
func TestCreateOrderSelfPurchase(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)

	router := gin.New()
	router.POST("/orders", setUserID(7), handler.Create)

	mockService.On("CreateOrder", mock.AnythingOfType("*model.OrderCreate"), 7).
		Return(nil, errors.New(errors.ErrSelfPurchase, "Cannot buy your own product"))

	body := []byte(`{"product_id": 10, "quantity": 1, "shipping_address": "42 Main St"}`)
	req, _ := http.NewRequest("POST", "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot buy your own product")
}

// TestCreateOrderMissingFields 测试缺少必填字段的请求
func TestCreateOrderMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)

	router := gin.New()
	router.POST("/orders", setUserID(3), handler.Create)

	body := []byte(`{"product_id": 10}`)
	req, _ := http.NewRequest("POST", "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

// TestGetOrderByIDForbidden 测试既非买家也非卖家的访问
func TestGetOrderByIDForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)

	router := gin.New()
	router.GET("/orders/:id", setUserID(42), handler.GetByID)

	order := &model.Order{ID: 1, BuyerID: 3, SellerID: 7}
	mockService.On("GetOrderByID", 1).Return(order, nil)

	req, _ := http.NewRequest("GET", "/orders/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// TestGetOrderByIDParticipant 测试买家和卖家均可查看订单
func TestGetOrderByIDParticipant(t *testing.T) {
	gin.SetMode(gin.TestMode)

	order := &model.Order{ID: 1, BuyerID: 3, SellerID: 7}

	for _, userID := range []int{3, 7} {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService)

		router := gin.New()
		router.GET("/orders/:id", setUserID(userID), handler.GetByID)

		mockService.On("GetOrderByID", 1).Return(order, nil)

		req, _ := http.NewRequest("GET", "/orders/1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	}
}

// TestListOrders 测试买家与卖家两个查询维度
func TestListOrders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)

	router := gin.New()
	router.GET("/orders", setUserID(3), handler.List)
	router.GET("/orders/sales", setUserID(3), handler.Sales)

	filter := model.OrderFilter{Status: model.OrderStatusPending}
	mockService.On("GetUserOrders", 3, filter, 0, 20, true).Return([]*model.Order{{ID: 1}}, nil)
	mockService.On("GetUserOrders", 3, model.OrderFilter{}, 0, 20, false).Return([]*model.Order{}, nil)

	req, _ := http.NewRequest("GET", "/orders?status=pending", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req, _ = http.NewRequest("GET", "/orders/sales", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	mockService.AssertExpectations(t)
}

// TestListOrdersInvalidStatus 测试未知的订单状态筛选值
func TestListOrdersInvalidStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)

	router := gin.New()
	router.GET("/orders", setUserID(3), handler.List)

	req, _ := http.NewRequest("GET", "/orders?status=archived", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetUserOrders", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdateOrderNotSeller 测试非卖家的更新请求
// 响应与订单不存在时完全一致
func TestUpdateOrderNotSeller(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)

	router := gin.New()
	router.PUT("/orders/:id", setUserID(3), handler.Update)

	mockService.On("UpdateOrder", 1, mock.AnythingOfType("*model.OrderUpdate"), 3).Return(nil, nil)

	body := []byte(`{"status": "shipped"}`)
	req, _ := http.NewRequest("PUT", "/orders/1", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
