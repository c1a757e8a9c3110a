package utils

import (
	"time"
)

var (
	// TokyoLocation 日本时区 (UTC+9)，note.com 账号所在时区
	TokyoLocation *time.Location
)

func init() {
	var err error
	TokyoLocation, err = time.LoadLocation("Asia/Tokyo")
	if err != nil {
		// 如果加载失败，使用固定偏移量 UTC+9
		TokyoLocation = time.FixedZone("JST", 9*60*60)
	}
}

// NowInTokyo 获取日本时区的当前时间
func NowInTokyo() time.Time {
	return time.Now().In(TokyoLocation)
}

// TodayInTokyo 获取日本时区的当前日历日，格式 "2006-01-02"
func TodayInTokyo() string {
	return NowInTokyo().Format("2006-01-02")
}
