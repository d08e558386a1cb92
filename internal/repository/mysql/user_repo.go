package mysql

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sarfraz-web/bechdo.in/internal/model"
	"github.com/sarfraz-web/bechdo.in/internal/util"
	"go.uber.org/zap"
)

// userRepository 实现了 UserRepository 接口
type userRepository struct {
	db *sql.DB
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db}
}

const userColumns = `id, username, email, password_hash, full_name, phone, address, profile_image,
              is_active, is_verified, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FullName, &user.Phone, &user.Address, &user.ProfileImage,
		&user.IsActive, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建一个新用户
func (r *userRepository) Create(user *model.User) error {
	util.Logger.Info("尝试创建新用户", zap.String("email", user.Email))
	now := time.Now()
	query := `INSERT INTO users (username, email, password_hash, full_name, phone, is_active, is_verified, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query, user.Username, user.Email, user.PasswordHash,
		user.FullName, user.Phone, user.IsActive, user.IsVerified, now, now)
	if err != nil {
		util.Logger.Error("创建用户失败", zap.Error(err))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新用户ID失败", zap.Error(err))
		return err
	}
	user.ID = int(id)
	user.CreatedAt = now
	user.UpdatedAt = now
	util.Logger.Info("用户创建成功", zap.Int("user_id", user.ID))
	return nil
}

// FindByID 通过ID查找用户，不存在时返回 (nil, nil)
func (r *userRepository) FindByID(id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(r.db.QueryRow(query, id))
}

// FindByEmail 通过邮箱查找用户，不存在时返回 (nil, nil)
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(r.db.QueryRow(query, email))
}

// FindByUsername 通过用户名查找用户，不存在时返回 (nil, nil)
func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return scanUser(r.db.QueryRow(query, username))
}

// Update 按字段部分更新用户，未提供的字段保持不变
// 没有任何字段时不执行更新，updated_at 也不变
func (r *userRepository) Update(id int, update *model.UserUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	var sets []string
	var args []interface{}

	if update.FullName != nil {
		sets = append(sets, "full_name = ?")
		args = append(args, *update.FullName)
	}
	if update.Phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, *update.Phone)
	}
	if update.Address != nil {
		sets = append(sets, "address = ?")
		args = append(args, *update.Address)
	}
	if update.ProfileImage != nil {
		sets = append(sets, "profile_image = ?")
		args = append(args, *update.ProfileImage)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now(), id)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = ?", strings.Join(sets, ", "))
	if _, err := r.db.Exec(query, args...); err != nil {
		util.Logger.Error("更新用户失败", zap.Error(err), zap.Int("user_id", id))
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// SetVerified 标记用户邮箱已验证
func (r *userRepository) SetVerified(id int) error {
	_, err := r.db.Exec(`UPDATE users SET is_verified = true, updated_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

// SetPasswordHash 更新用户密码哈希
func (r *userRepository) SetPasswordHash(id int, passwordHash string) error {
	_, err := r.db.Exec(`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, passwordHash, time.Now(), id)
	return err
}
