package interfaces

import "github.com/sarfraz-web/bechdo.in/internal/model"

// ProductRepository 接口定义了商品仓库应该实现的方法
type ProductRepository interface {
	Create(product *model.Product) error
	// FindByID 在记录不存在时返回 (nil, nil)
	FindByID(id int) (*model.Product, error)
	// IncrementViews 将浏览次数加一，在读取之后单独执行
	IncrementViews(id int) error
	// Search 只返回 active 状态的商品，按创建时间倒序
	Search(filter model.ProductFilter, skip, limit int) ([]*model.Product, error)
	// FindBySeller 返回指定卖家的商品，不过滤状态，按创建时间倒序
	FindBySeller(sellerID int, skip, limit int) ([]*model.Product, error)
	// Update 仅在 id 与 seller 同时匹配时生效，返回是否有记录被更新
	Update(id, sellerID int, update *model.ProductUpdate) (bool, error)
	// Delete 仅在 id 与 seller 同时匹配时生效，返回是否有记录被删除
	Delete(id, sellerID int) (bool, error)
}
