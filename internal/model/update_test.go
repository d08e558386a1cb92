package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestUserUpdateIsEmpty 测试用户更新载荷的空判断
func TestUserUpdateIsEmpty(t *testing.T) {
	assert.True(t, (&UserUpdate{}).IsEmpty())

	name := "Alice"
	assert.False(t, (&UserUpdate{FullName: &name}).IsEmpty())

	// 指向空字符串的字段也算已提供
	empty := ""
	assert.False(t, (&UserUpdate{Phone: &empty}).IsEmpty())
}

// TestProductUpdateIsEmpty 测试商品更新载荷的空判断
func TestProductUpdateIsEmpty(t *testing.T) {
	assert.True(t, (&ProductUpdate{}).IsEmpty())

	price := 10.0
	assert.False(t, (&ProductUpdate{Price: &price}).IsEmpty())

	status := ProductStatusSold
	assert.False(t, (&ProductUpdate{Status: &status}).IsEmpty())

	// 指向空切片的字段也算已提供：调用方明确要清空图片
	images := []string{}
	assert.False(t, (&ProductUpdate{Images: &images}).IsEmpty())
}

// TestOrderUpdateIsEmpty 测试订单更新载荷的空判断
func TestOrderUpdateIsEmpty(t *testing.T) {
	assert.True(t, (&OrderUpdate{}).IsEmpty())

	status := OrderStatusShipped
	assert.False(t, (&OrderUpdate{Status: &status}).IsEmpty())

	notes := ""
	assert.False(t, (&OrderUpdate{SellerNotes: &notes}).IsEmpty())
}
