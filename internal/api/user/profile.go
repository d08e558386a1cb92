package user

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sarfraz-web/bechdo.in/internal/errors"
	"github.com/sarfraz-web/bechdo.in/internal/model"
	"github.com/sarfraz-web/bechdo.in/internal/service"
	"github.com/sarfraz-web/bechdo.in/internal/storage"
	"github.com/sarfraz-web/bechdo.in/internal/util"
	"go.uber.org/zap"
)

// ProfileHandler 处理用户资料相关的HTTP请求
type ProfileHandler struct {
	userService service.UserServiceInterface
	uploader    storage.Uploader
}

// NewProfileHandler 创建一个新的 ProfileHandler 实例
func NewProfileHandler(userService service.UserServiceInterface, uploader storage.Uploader) *ProfileHandler {
	return &ProfileHandler{userService, uploader}
}

// GetProfile 获取当前用户的资料
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取用户资料失败", err))
		return
	}
	if user == nil {
		errors.HandleError(c, errors.New(errors.ErrUserNotFound, "User not found"))
		return
	}

	errors.HandleSuccess(c, gin.H{"user": user}, "")
}

// UpdateProfile 更新当前用户的资料
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var update model.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	user, err := h.userService.UpdateUser(userID, &update)
	if err != nil {
		util.Logger.Error("更新用户资料失败", zap.Int("user_id", userID), zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "更新用户资料失败", err))
		return
	}
	if user == nil {
		errors.HandleError(c, errors.New(errors.ErrUserNotFound, "User not found"))
		return
	}

	errors.HandleSuccess(c, gin.H{"user": user}, "资料更新成功")
}

// UploadAvatar 上传用户头像
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetInt("user_id")

	file, err := c.FormFile("avatar")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "未找到上传文件", err))
		return
	}

	filename := util.GenerateUniqueFilename(file.Filename)
	url, err := h.uploader.UploadFile(file, "avatars/"+filename)
	if err != nil {
		util.Logger.Error("头像上传失败", zap.Int("user_id", userID), zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "头像上传失败", err))
		return
	}

	if err := h.userService.UpdateAvatar(userID, url); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "更新头像失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"avatar_url": url}, "头像上传成功")
}

// GetUserByID 获取指定用户的公开资料
func (h *ProfileHandler) GetUserByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取用户失败", err))
		return
	}
	if user == nil {
		errors.HandleError(c, errors.New(errors.ErrUserNotFound, "User not found"))
		return
	}

	errors.HandleSuccess(c, gin.H{"user": user.Summary()}, "")
}
