package model

import "time"

// OrderStatus 订单状态枚举
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// Valid 校验订单状态是否为已知值
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// PaymentStatus 支付状态枚举
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Valid 校验支付状态是否为已知值
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// Order 订单模型
// seller_id 与 total_price 在创建时从商品复制，之后不再变化
type Order struct {
	ID              int           `json:"id"`
	ProductID       int           `json:"product_id"`
	BuyerID         int           `json:"buyer_id"`
	SellerID        int           `json:"seller_id"`
	Quantity        int           `json:"quantity"`
	TotalPrice      float64       `json:"total_price"`
	Status          OrderStatus   `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	ShippingAddress string        `json:"shipping_address"`
	BuyerNotes      string        `json:"buyer_notes,omitempty"`
	SellerNotes     string        `json:"seller_notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	// 读取时填充的关联信息，缺失的引用保持为 nil
	ProductInfo *ProductSummary `json:"product_info,omitempty"`
	BuyerInfo   *UserSummary    `json:"buyer_info,omitempty"`
	SellerInfo  *UserSummary    `json:"seller_info,omitempty"`
}

// OrderCreate 创建订单的输入
type OrderCreate struct {
	ProductID       int    `json:"product_id" binding:"required"`
	Quantity        int    `json:"quantity" binding:"required,gte=1"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
	BuyerNotes      string `json:"buyer_notes"`
}

// OrderUpdate 部分更新载荷，仅卖家可用，nil 表示该字段未提供
type OrderUpdate struct {
	Status        *OrderStatus   `json:"status"`
	PaymentStatus *PaymentStatus `json:"payment_status"`
	SellerNotes   *string        `json:"seller_notes"`
}

// IsEmpty 判断是否没有任何待更新字段
func (u *OrderUpdate) IsEmpty() bool {
	return u.Status == nil && u.PaymentStatus == nil && u.SellerNotes == nil
}

// OrderFilter 订单列表查询条件
type OrderFilter struct {
	Status        OrderStatus
	PaymentStatus PaymentStatus
}
