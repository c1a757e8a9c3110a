package noteapi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iceymoss/note-stats-tracker/pkg/logger"
	"github.com/iceymoss/note-stats-tracker/pkg/utils"

	"go.uber.org/zap"
)

// Cookie 的有效期约 90 天，剩 10 天内开始催更新
const (
	cookieLifetimeDays = 90
	cookieWarnDays     = 10
)

// ValidateCookie 发请求前做基本形状检查，明显配错的直接拦下来
func ValidateCookie(cookie string) error {
	if cookie == "" {
		return errors.New("NOTE_COOKIE is empty: set it in .env or repository secrets")
	}
	if !strings.Contains(cookie, "=") {
		return fmt.Errorf("NOTE_COOKIE is not in key=value form (prefix: %s)", truncate(cookie, 30))
	}
	if strings.HasPrefix(cookie, "NOTE_COOKIE=") {
		return errors.New("NOTE_COOKIE value contains 'NOTE_COOKIE=': set the value only")
	}
	if len(cookie) < 50 {
		logger.Warn("⚠️ NOTE_COOKIE looks too short, check you copied the full Cookie header",
			zap.Int("length", len(cookie)))
	}
	return nil
}

// CheckCookieExpiry 根据设置日期提示 Cookie 剩余有效期，只提醒不拦截
func CheckCookieExpiry(setDate string) {
	if setDate == "" {
		logger.Warn("⚠️ COOKIE_SET_DATE not set, skip expiry check")
		return
	}
	remaining, err := CookieDaysRemaining(setDate, utils.NowInTokyo())
	if err != nil {
		logger.Warn("⚠️ COOKIE_SET_DATE is malformed", zap.String("value", setDate))
		return
	}
	switch {
	case remaining <= 0:
		logger.Warn("🚨 cookie may have expired", zap.Int("days_elapsed", cookieLifetimeDays-remaining))
	case remaining <= cookieWarnDays:
		logger.Warn("⚠️ cookie expires soon, refresh it", zap.Int("days_remaining", remaining))
	default:
		logger.Info("✓ cookie expiry ok", zap.Int("days_remaining", remaining))
	}
}

// CookieDaysRemaining 返回距离 90 天有效期还剩的天数
func CookieDaysRemaining(setDate string, now time.Time) (int, error) {
	set, err := time.ParseInLocation("2006-01-02", setDate, utils.TokyoLocation)
	if err != nil {
		return 0, err
	}
	elapsed := int(now.Sub(set).Hours() / 24)
	return cookieLifetimeDays - elapsed, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
