package noteapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iceymoss/note-stats-tracker/pkg/logger"

	"go.uber.org/zap"
)

const userAgent = "note-stats-tracker"

// 致命错误类：stats 接口是产出有效数据的前提，拿不到就整轮终止
var (
	// ErrAuth Cookie 失效或被拒（HTTP 401/403）
	ErrAuth = errors.New("noteapi: authentication rejected")
	// ErrMalformed stats 响应缺少预期的 envelope 结构
	ErrMalformed = errors.New("noteapi: malformed stats response")
)

// NoteStat stats 接口里单篇文章的统计摘要
type NoteStat struct {
	ID           int64  `json:"id"`
	Key          string `json:"key"`
	Name         string `json:"name"`
	ReadCount    int    `json:"read_count"`
	LikeCount    int    `json:"like_count"`
	CommentCount int    `json:"comment_count"`
}

// StatsPage 分页 stats 的一页：文章列表 + 全量合计 + 末页标记
type StatsPage struct {
	NoteStats    []NoteStat
	TotalPV      int
	TotalLike    int
	TotalComment int
	LastPage     bool
}

// NoteDates 单篇文章的慢变日期字段，取不到的留空
type NoteDates struct {
	PublishedAt string `json:"published_at"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Client note.com 私有统计 API 客户端
type Client struct {
	baseURL    string
	cookie     string
	httpClient *http.Client
}

func NewClient(baseURL, cookie string) *Client {
	return &Client{
		baseURL: baseURL,
		cookie:  cookie,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Cookie", c.cookie)
	req.Header.Set("User-Agent", userAgent)
	return c.httpClient.Do(req)
}

// statsEnvelope data.note_stats 用指针区分“字段缺失”和“空列表”
type statsEnvelope struct {
	Data *struct {
		NoteStats    *[]NoteStat `json:"note_stats"`
		TotalPV      int         `json:"total_pv"`
		TotalLike    int         `json:"total_like"`
		TotalComment int         `json:"total_comment"`
		LastPage     *bool       `json:"last_page"`
	} `json:"data"`
}

// FetchStatsPage 拉取 stats 分页。认证失败或响应结构不对都是致命错误。
func (c *Client) FetchStatsPage(ctx context.Context, page int) (*StatsPage, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/api/v1/stats/pv?filter=all&page=%d&sort=pv", page))
	if err != nil {
		return nil, fmt.Errorf("fetch stats page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w (HTTP %d): update NOTE_COOKIE", ErrAuth, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch stats page %d: HTTP %d", page, resp.StatusCode)
	}

	var env statsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Data == nil || env.Data.NoteStats == nil {
		return nil, fmt.Errorf("%w: missing data.note_stats, cookie may be invalid", ErrMalformed)
	}

	// last_page 缺失按末页处理，避免对着旧版接口死循环
	lastPage := true
	if env.Data.LastPage != nil {
		lastPage = *env.Data.LastPage
	}

	return &StatsPage{
		NoteStats:    *env.Data.NoteStats,
		TotalPV:      env.Data.TotalPV,
		TotalLike:    env.Data.TotalLike,
		TotalComment: env.Data.TotalComment,
		LastPage:     lastPage,
	}, nil
}

// VerifyAuth 在任何写入之前先用第 1 页探测认证是否有效
func (c *Client) VerifyAuth(ctx context.Context) error {
	if _, err := c.FetchStatsPage(ctx, 1); err != nil {
		return err
	}
	return nil
}

// FetchNoteDetail 拉取单篇文章的日期信息。
// 这个接口挂了不影响整轮：返回空字段，调用方带着缺失数据继续。
func (c *Client) FetchNoteDetail(ctx context.Context, key string) NoteDates {
	resp, err := c.get(ctx, "/api/v3/notes/"+key)
	if err != nil {
		logger.Warn("⚠️ note detail fetch failed", zap.String("key", key), zap.Error(err))
		return NoteDates{}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		logger.Warn("⚠️ note detail fetch failed", zap.String("key", key), zap.Int("status", resp.StatusCode))
		return NoteDates{}
	}

	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		logger.Warn("⚠️ note detail decode failed", zap.String("key", key), zap.Error(err))
		return NoteDates{}
	}

	return ExtractDates(env.Data)
}

// FetchFollowerCount 拉取粉丝数。username 未配置或请求失败都按“未知”降级。
func (c *Client) FetchFollowerCount(ctx context.Context, username string) (int, bool) {
	if username == "" {
		logger.Warn("⚠️ note username not configured, skip follower count")
		return 0, false
	}

	resp, err := c.get(ctx, "/api/v2/creators/"+username)
	if err != nil {
		logger.Warn("⚠️ follower count fetch failed", zap.Error(err))
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		logger.Warn("⚠️ follower count fetch failed", zap.Int("status", resp.StatusCode))
		return 0, false
	}

	var env struct {
		Data struct {
			FollowerCount *int `json:"followerCount"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil || env.Data.FollowerCount == nil {
		logger.Warn("⚠️ follower count missing in response")
		return 0, false
	}

	return *env.Data.FollowerCount, true
}
