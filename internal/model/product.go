package model

import "time"

// ProductStatus 商品状态枚举
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusSold     ProductStatus = "sold"
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusInactive ProductStatus = "inactive"
)

// Valid 校验商品状态是否为已知值
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusActive, ProductStatusSold, ProductStatusDraft, ProductStatusInactive:
		return true
	}
	return false
}

// ProductCondition 商品成色枚举
type ProductCondition string

const (
	ConditionNew     ProductCondition = "new"
	ConditionLikeNew ProductCondition = "like_new"
	ConditionGood    ProductCondition = "good"
	ConditionFair    ProductCondition = "fair"
	ConditionPoor    ProductCondition = "poor"
)

// Valid 校验商品成色是否为已知值
func (c ProductCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Product 商品模型
type Product struct {
	ID          int              `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	Category    string           `json:"category"`
	Condition   ProductCondition `json:"condition"`
	Images      []string         `json:"images"`
	SellerID    int              `json:"seller_id"`
	SellerInfo  *UserSummary     `json:"seller_info,omitempty"` // 读取时填充
	Status      ProductStatus    `json:"status"`
	Location    string           `json:"location,omitempty"`
	Tags        []string         `json:"tags"`
	Views       int              `json:"views"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductSummary 商品摘要信息，用于填充订单视图
type ProductSummary struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Price  float64  `json:"price"`
	Images []string `json:"images"`
}

// Summary 返回商品摘要
func (p *Product) Summary() *ProductSummary {
	return &ProductSummary{
		ID:     p.ID,
		Title:  p.Title,
		Price:  p.Price,
		Images: p.Images,
	}
}

// ProductUpdate 部分更新载荷，nil 表示该字段未提供
type ProductUpdate struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Price       *float64          `json:"price"`
	Category    *string           `json:"category"`
	Condition   *ProductCondition `json:"condition"`
	Images      *[]string         `json:"images"`
	Location    *string           `json:"location"`
	Tags        *[]string         `json:"tags"`
	Status      *ProductStatus    `json:"status"`
}

// IsEmpty 判断是否没有任何待更新字段
func (u *ProductUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Price == nil &&
		u.Category == nil && u.Condition == nil && u.Images == nil &&
		u.Location == nil && u.Tags == nil && u.Status == nil
}

// ProductFilter 商品列表查询条件，所有条件为 AND 关系
type ProductFilter struct {
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	Condition ProductCondition
	Location  string
	Search    string
}
