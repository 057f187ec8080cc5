package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"modeladmin/config"
	"modeladmin/database"
	"modeladmin/middleware"
	"modeladmin/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const loginTemplate = "wagtailadmin/login.html"

// AuthHandler 后台登录/登出
type AuthHandler struct {
	site *Site
	cfg  *config.Config
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(site *Site, cfg *config.Config) *AuthHandler {
	return &AuthHandler{site: site, cfg: cfg}
}

// safeNext 只允许跳转到后台内部地址，防止开放重定向
func (h *AuthHandler) safeNext(next string) string {
	root := h.site.URL("")
	if !strings.HasPrefix(next, root) || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return root
	}
	return next
}

func (h *AuthHandler) loginPage(c *gin.Context, status int, username, next, message string) {
	out, err := h.site.Renderer.Render(loginTemplate, map[string]any{
		"site_name": h.site.Name,
		"action":    h.site.LoginURL(),
		"next":      next,
		"username":  username,
		"error":     message,
	})
	if err != nil {
		h.site.fail(c, err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", []byte(out))
}

// LoginPage 登录表单
func (h *AuthHandler) LoginPage(c *gin.Context) {
	h.loginPage(c, http.StatusOK, "", h.safeNext(c.Query("next")), "")
}

// Login 校验用户名密码并写入会话 Cookie
func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	next := h.safeNext(c.PostForm("next"))

	if username == "" || password == "" {
		h.loginPage(c, http.StatusOK, username, next, "请输入用户名和密码")
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.site.fail(c, err)
			return
		}
		h.loginPage(c, http.StatusOK, username, next, "用户名或密码错误")
		return
	}

	// 仅正常用户可登录
	if !user.Active() {
		h.loginPage(c, http.StatusForbidden, username, next, "账号已锁定，请联系管理员解锁")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		h.loginPage(c, http.StatusOK, username, next, "用户名或密码错误")
		return
	}

	ttl := h.cfg.JWT.ExpireTime
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token, err := middleware.GenerateToken(user.ID, user.Username, ttl)
	if err != nil {
		h.site.fail(c, err)
		return
	}

	now := time.Now()
	if err := database.DB.Model(&user).Update("last_login", &now).Error; err != nil {
		h.site.Logger.Warn("更新最后登录时间失败", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	secure, sameSite := getCookieOptions()
	c.SetSameSite(sameSite)
	c.SetCookie(middleware.SessionCookie, token, int(ttl.Seconds()), h.site.URL(""), "", secure, true)
	h.site.Logger.Info("管理员登录", zap.String("username", user.Username), zap.String("ip", c.ClientIP()))
	c.Redirect(http.StatusFound, next)
}

// Logout 清除会话 Cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	secure, sameSite := getCookieOptions()
	c.SetSameSite(sameSite)
	c.SetCookie(middleware.SessionCookie, "", -1, h.site.URL(""), "", secure, true)
	c.Redirect(http.StatusFound, h.site.LoginURL())
}

// ProfileResponse 当前管理员信息
type ProfileResponse struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	LastLogin *time.Time `json:"last_login"`
}

// GetProfile 获取当前管理员信息
// @Summary 获取当前管理员信息
// @Description 获取当前登录管理员的基本信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=ProfileResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "用户不存在"
// @Router /admin/api/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	if userID == 0 {
		Unauthorized(c, "未登录")
		return
	}

	var user models.User
	err := database.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "用户不存在")
		return
	}
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "获取用户信息失败"))
		return
	}

	Success(c, ProfileResponse{ID: user.ID, Username: user.Username, LastLogin: user.LastLogin})
}
