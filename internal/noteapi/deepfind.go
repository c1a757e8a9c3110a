package noteapi

// 详情接口的日期字段名在不同版本里不稳定，按优先级逐个找
var publishedAtCandidates = []string{"published_at", "publish_at", "first_published_at"}

// 嵌套的 user 子结构自带 created_at/updated_at，会误命中，整棵跳过
const excludedSubtree = "user"

const maxSearchDepth = 4

// ExtractDates 在解码后的 JSON 树里做容错的字段搜索，
// published_at 按候选名优先级取第一个非空值，created_at/updated_at 直接找。
func ExtractDates(tree map[string]any) NoteDates {
	var dates NoteDates
	for _, key := range publishedAtCandidates {
		if v, ok := deepFind(tree, key, maxSearchDepth); ok {
			dates.PublishedAt = v
			break
		}
	}
	dates.CreatedAt, _ = deepFind(tree, "created_at", maxSearchDepth)
	dates.UpdatedAt, _ = deepFind(tree, "updated_at", maxSearchDepth)
	return dates
}

// deepFind 有界深度遍历，命中第一个非空字符串就停
func deepFind(v any, key string, depth int) (string, bool) {
	if depth < 0 {
		return "", false
	}
	switch node := v.(type) {
	case map[string]any:
		if raw, ok := node[key]; ok {
			if s, ok := raw.(string); ok && s != "" {
				return s, true
			}
		}
		for k, child := range node {
			if k == excludedSubtree {
				continue
			}
			if s, ok := deepFind(child, key, depth-1); ok {
				return s, true
			}
		}
	case []any:
		for _, child := range node {
			if s, ok := deepFind(child, key, depth-1); ok {
				return s, true
			}
		}
	}
	return "", false
}
