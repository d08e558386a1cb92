package service

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/sarfraz-web/bechdo.in/config"
	"github.com/sarfraz-web/bechdo.in/internal/repository/interfaces"
	"github.com/sarfraz-web/bechdo.in/internal/util"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

type EmailService struct {
	smtpHost   string
	smtpPort   int
	username   string
	password   string
	userRepo   interfaces.UserRepository
	jwtSecret  string
	domainName string
}

func NewEmailService(userRepo interfaces.UserRepository) *EmailService {
	return &EmailService{
		smtpHost:   config.AppConfig.SMTPHost,
		smtpPort:   config.AppConfig.SMTPPort,
		username:   config.AppConfig.SMTPUsername,
		password:   config.AppConfig.SMTPPassword,
		userRepo:   userRepo,
		jwtSecret:  config.AppConfig.JWTSecret,
		domainName: config.AppConfig.DomainName,
	}
}

// SendVerificationEmail 发送邮箱验证邮件
func (s *EmailService) SendVerificationEmail(email, username string) error {
	token, err := s.generateEmailVerificationToken(email)
	if err != nil {
		util.Logger.Error("生成验证令牌失败", zap.Error(err))
		return fmt.Errorf("生成验证令牌失败: %w", err)
	}

	verificationLink := fmt.Sprintf("%s/verify-email?token=%s", config.AppConfig.FrontendURL, token)

	subject := "验证您的邮箱 - bechdo.in"
	body := fmt.Sprintf("亲爱的 %s，\n\n请点击以下链接验证您的邮箱：\n%s\n\n此链接将在24小时后过期。", username, verificationLink)

	s.sendEmailAsync(email, subject, body)
	return nil
}

// SendPasswordResetEmail 发送密码重置邮件
func (s *EmailService) SendPasswordResetEmail(email string) error {
	token, err := s.generatePasswordResetToken(email)
	if err != nil {
		util.Logger.Error("生成密码重置令牌失败", zap.Error(err))
		return fmt.Errorf("生成密码重置令牌失败: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", config.AppConfig.FrontendURL, token)

	subject := "重置您的密码 - bechdo.in"
	body := fmt.Sprintf("您请求了密码重置。\n\n请点击以下链接设置新密码：\n%s\n\n如果这不是您本人的操作，请忽略此邮件。", resetLink)

	s.sendEmailAsync(email, subject, body)
	return nil
}

func (s *EmailService) sendEmailAsync(to, subject, body string) {
	go func() {
		if err := s.sendEmail(to, subject, body); err != nil {
			util.Logger.Error("异步发送邮件失败", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	util.Logger.Info("开始发送邮件",
		zap.String("to", to),
		zap.String("subject", subject))

	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = true
	d.TLSConfig = &tls.Config{ServerName: s.smtpHost}

	if err := d.DialAndSend(m); err != nil {
		util.Logger.Error("发送邮件失败", zap.Error(err))
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	util.Logger.Info("邮件发送成功", zap.String("to", to))
	return nil
}

func (s *EmailService) generateEmailVerificationToken(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *EmailService) generatePasswordResetToken(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":   email,
		"purpose": "password_reset",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	return token.SignedString([]byte(s.jwtSecret))
}

// VerifyEmailToken 解析验证令牌并返回对应的用户ID
func (s *EmailService) VerifyEmailToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("无效的令牌: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("无效的令牌")
	}

	email, ok := claims["email"].(string)
	if !ok {
		return 0, fmt.Errorf("无效的令牌: 缺少邮箱信息")
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return 0, fmt.Errorf("查找用户失败: %w", err)
	}
	if user == nil {
		return 0, fmt.Errorf("未找到用户")
	}
	return user.ID, nil
}

// VerifyPasswordResetToken 解析密码重置令牌并返回邮箱
func (s *EmailService) VerifyPasswordResetToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("无效的令牌: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("无效的令牌")
	}

	if purpose, _ := claims["purpose"].(string); purpose != "password_reset" {
		return "", fmt.Errorf("无效的令牌用途")
	}

	email, ok := claims["email"].(string)
	if !ok {
		return "", fmt.Errorf("无效的令牌: 缺少邮箱信息")
	}
	return email, nil
}
