package conf

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Note   NoteConfig   `mapstructure:"note"`
	Jobs   []JobConfig  `mapstructure:"jobs"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// NoteConfig note.com 账号与采集参数
type NoteConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	Cookie        string `mapstructure:"cookie"`          // 会话 Cookie（建议走 ${NOTE_COOKIE}）
	Username      string `mapstructure:"username"`        // 粉丝数跟踪用账号名，空则跳过
	CookieSetDate string `mapstructure:"cookie_set_date"` // Cookie 设置日期，仅用于到期提醒
	DataDir       string `mapstructure:"data_dir"`
	PageDelayMs   int    `mapstructure:"page_delay_ms"`   // 分页请求间隔
	DetailDelayMs int    `mapstructure:"detail_delay_ms"` // 详情请求间隔
}

type JobConfig struct {
	Name   string                 `mapstructure:"name"`
	Cron   string                 `mapstructure:"cron"`
	Enable bool                   `mapstructure:"enable"`
	Params map[string]interface{} `mapstructure:"params"`
}

// LoadConfig 加载配置
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv() // 自动读取环境变量

	// 允许环境变量替换 YAML 中的 ${VAR}
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	// 显式展开环境变量
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.Contains(val, "${") {
			v.Set(key, os.ExpandEnv(val))
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	c.Note.ApplyDefaults()
	return &c, nil
}

// ApplyDefaults 补齐零值字段，任务参数路径也复用这套默认
func (n *NoteConfig) ApplyDefaults() {
	if n.BaseURL == "" {
		n.BaseURL = "https://note.com"
	}
	if n.DataDir == "" {
		n.DataDir = "data"
	}
	if n.PageDelayMs <= 0 {
		n.PageDelayMs = 1000
	}
	if n.DetailDelayMs <= 0 {
		n.DetailDelayMs = 200
	}
}
