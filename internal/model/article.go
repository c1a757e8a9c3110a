package model

// Article 一篇文章在某个观测日的快照。
// 日期字段可能始终没取到（详情接口失败），保持空值而不是报错。
type Article struct {
	Date         string // 观测日 YYYY-MM-DD
	NoteID       int64
	Key          string // 详情接口用的稳定 slug，和数字 ID 不是一回事
	Title        string
	PublishedAt  string
	CreatedAt    string
	UpdatedAt    string
	AgeDays      *int // 发布至今的整天数，nil 表示未知
	ReadCount    int
	LikeCount    int
	CommentCount int
}
