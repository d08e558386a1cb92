package interfaces

import "github.com/sarfraz-web/bechdo.in/internal/model"

// OrderRepository 接口定义了订单仓库应该实现的方法
// 订单永不删除
type OrderRepository interface {
	Create(order *model.Order) error
	// FindByID 在记录不存在时返回 (nil, nil)
	FindByID(id int) (*model.Order, error)
	// FindByUser 按买家或卖家维度查询订单，按创建时间倒序
	FindByUser(userID int, filter model.OrderFilter, skip, limit int, asBuyer bool) ([]*model.Order, error)
	// Update 仅在 id 与 seller 同时匹配时生效，返回是否有记录被更新
	Update(id, sellerID int, update *model.OrderUpdate) (bool, error)
}
