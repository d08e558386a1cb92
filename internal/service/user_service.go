package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/sarfraz-web/bechdo.in/internal/errors"
	"github.com/sarfraz-web/bechdo.in/internal/model"
	"github.com/sarfraz-web/bechdo.in/internal/repository/interfaces"
	"github.com/sarfraz-web/bechdo.in/internal/util"
	"go.uber.org/zap"

	"golang.org/x/crypto/bcrypt"
)

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo       interfaces.UserRepository
	emailService   *EmailService
	tokenBlacklist map[string]time.Time
	blacklistMutex sync.RWMutex
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository) *UserService {
	return &UserService{
		userRepo:       userRepo,
		emailService:   NewEmailService(userRepo),
		tokenBlacklist: make(map[string]time.Time),
	}
}

// Register 注册新用户
// 邮箱或用户名已被占用时返回 ErrUserExists
func (s *UserService) Register(user *model.User, password string) error {
	existing, err := s.userRepo.FindByEmail(user.Email)
	if err != nil {
		return fmt.Errorf("查询用户失败: %w", err)
	}
	if existing == nil {
		existing, err = s.userRepo.FindByUsername(user.Username)
		if err != nil {
			return fmt.Errorf("查询用户失败: %w", err)
		}
	}
	if existing != nil {
		return errors.New(errors.ErrUserExists, "User with this email or username already exists")
	}

	// 生成密码哈希
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)
	user.IsActive = true
	user.IsVerified = false

	if err := s.userRepo.Create(user); err != nil {
		return err
	}

	// 发送验证邮件，失败不影响注册
	if err := s.emailService.SendVerificationEmail(user.Email, user.Username); err != nil {
		util.Logger.Error("发送验证邮件失败", zap.Error(err))
	}

	return nil
}

// Authenticate 验证用户凭证
// 用户不存在与密码错误返回相同的 (nil, nil)，不向调用方泄露差异
func (s *UserService) Authenticate(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.Logger.Info("用户登录失败，密码不正确", zap.Int("user_id", user.ID))
		return nil, nil
	}

	util.Logger.Info("用户登录成功", zap.Int("user_id", user.ID))
	return user, nil
}

// GetUserByID 通过ID获取用户信息，不存在时返回 (nil, nil)
func (s *UserService) GetUserByID(id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return user, nil
}

// GetUserByEmail 通过邮箱获取用户信息，不存在时返回 (nil, nil)
func (s *UserService) GetUserByEmail(email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return user, nil
}

// UpdateUser 部分更新用户资料，只应用提供的字段
// 用户不存在时返回 (nil, nil)
func (s *UserService) UpdateUser(id int, update *model.UserUpdate) (*model.User, error) {
	existing, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if existing == nil {
		return nil, nil
	}

	if err := s.userRepo.Update(id, update); err != nil {
		return nil, fmt.Errorf("更新用户失败: %w", err)
	}

	return s.userRepo.FindByID(id)
}

// VerifyEmail 通过邮件令牌验证用户邮箱
func (s *UserService) VerifyEmail(token string) error {
	userID, err := s.emailService.VerifyEmailToken(token)
	if err != nil {
		util.Logger.Error("验证邮箱令牌失败", zap.Error(err))
		return errors.Wrap(errors.ErrInvalidToken, "无效的验证令牌", err)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}

	if user.IsVerified {
		return errors.New(errors.ErrResourceExists, "email already verified")
	}

	if err := s.userRepo.SetVerified(user.ID); err != nil {
		util.Logger.Error("更新用户验证状态失败", zap.Error(err), zap.Int("user_id", user.ID))
		return err
	}

	util.Logger.Info("邮箱验证成功", zap.Int("user_id", user.ID))
	return nil
}

// RequestPasswordReset 发送密码重置邮件
func (s *UserService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}
	return s.emailService.SendPasswordResetEmail(email)
}

// ResetPassword 通过重置令牌设置新密码
func (s *UserService) ResetPassword(token, newPassword string) error {
	email, err := s.emailService.VerifyPasswordResetToken(token)
	if err != nil {
		util.Logger.Error("验证密码重置令牌失败", zap.Error(err))
		return errors.Wrap(errors.ErrInvalidToken, "无效的重置令牌", err)
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.userRepo.SetPasswordHash(user.ID, string(hashedPassword)); err != nil {
		util.Logger.Error("更新用户密码失败", zap.Error(err), zap.Int("user_id", user.ID))
		return err
	}

	util.Logger.Info("密码重置成功", zap.Int("user_id", user.ID))
	return nil
}

// Logout 将请求携带的令牌加入黑名单，同时清理已过期的条目
func (s *UserService) Logout(userID int, token string) error {
	now := time.Now()
	s.blacklistMutex.Lock()
	for t, expiry := range s.tokenBlacklist {
		if now.After(expiry) {
			delete(s.tokenBlacklist, t)
		}
	}
	s.tokenBlacklist[token] = now.Add(24 * time.Hour) // 令牌在黑名单中保留24小时
	s.blacklistMutex.Unlock()
	util.Logger.Info("用户注销，令牌已加入黑名单", zap.Int("user_id", userID))
	return nil
}

// IsTokenBlacklisted 判断令牌是否已被撤销
func (s *UserService) IsTokenBlacklisted(token string) bool {
	s.blacklistMutex.RLock()
	defer s.blacklistMutex.RUnlock()
	expiry, exists := s.tokenBlacklist[token]
	if !exists {
		return false
	}
	if time.Now().After(expiry) {
		return false
	}
	return true
}

// UpdateAvatar 更新用户头像
func (s *UserService) UpdateAvatar(userID int, avatarURL string) error {
	_, err := s.UpdateUser(userID, &model.UserUpdate{ProfileImage: &avatarURL})
	return err
}

type UserServiceInterface interface {
	Register(user *model.User, password string) error
	Authenticate(email, password string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	UpdateUser(id int, update *model.UserUpdate) (*model.User, error)
	VerifyEmail(token string) error
	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
	Logout(userID int, token string) error
	IsTokenBlacklisted(token string) bool
	UpdateAvatar(userID int, avatarURL string) error
}

// 确保 UserService 实现了 UserServiceInterface
var _ UserServiceInterface = (*UserService)(nil)
