package user

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CookieName   = "browser-id"
	CookieMaxAge = 365 * 24 * 60 * 60
	BrowserIDKey = "browserID"
)

// EnsureBrowserCookieMiddleware 确保浏览器中有一个格式正确的 browser-id cookie，
// 并把它放入Gin上下文，供表单令牌使用。首次访问时cookie和上下文使用同一个新ID。
func EnsureBrowserCookieMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		browserID, err := c.Cookie(CookieName)

		if err != nil || !IsValidUUID(browserID) {
			if err != http.ErrNoCookie {
				slog.Debug("检测到无效的browser-id cookie", "value", browserID, "error", err)
			}
			newID, genErr := NewBrowserID()
			if genErr != nil {
				slog.Error("生成browser-id失败", "error", genErr)
				c.Next()
				return
			}
			browserID = newID
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, browserID, CookieMaxAge, "/", "", false, true)
		}

		c.Set(BrowserIDKey, browserID)
		c.Next()
	}
}

// BrowserID 从Gin上下文中取出当前请求的浏览器ID
func BrowserID(c *gin.Context) string {
	return c.GetString(BrowserIDKey)
}
