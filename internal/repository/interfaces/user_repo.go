package interfaces

import "github.com/sarfraz-web/bechdo.in/internal/model"

// UserRepository 接口定义了用户仓库应该实现的方法
// 查找方法在记录不存在时返回 (nil, nil)
type UserRepository interface {
	Create(user *model.User) error
	FindByID(id int) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	Update(id int, update *model.UserUpdate) error
	SetVerified(id int) error
	SetPasswordHash(id int, passwordHash string) error
}
