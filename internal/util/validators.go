package util

import (
	"github.com/go-playground/validator/v10"
	"github.com/sarfraz-web/bechdo.in/internal/model"
)

// ValidateProductCondition 验证商品成色是否为已知枚举值
func ValidateProductCondition(fl validator.FieldLevel) bool {
	return model.ProductCondition(fl.Field().String()).Valid()
}

// ValidateProductStatus 验证商品状态是否为已知枚举值
func ValidateProductStatus(fl validator.FieldLevel) bool {
	return model.ProductStatus(fl.Field().String()).Valid()
}

// ValidateOrderStatus 验证订单状态是否为已知枚举值
func ValidateOrderStatus(fl validator.FieldLevel) bool {
	return model.OrderStatus(fl.Field().String()).Valid()
}

// ValidatePaymentStatus 验证支付状态是否为已知枚举值
func ValidatePaymentStatus(fl validator.FieldLevel) bool {
	return model.PaymentStatus(fl.Field().String()).Valid()
}
