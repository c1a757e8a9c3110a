package constants

// TaskType 任务来源类型
type TaskType string

const (
	TaskTypeSYSTEM TaskType = "SYSTEM" // 代码内注册的自动任务
	TaskTypeYAML   TaskType = "YAML"   // 配置文件注册的任务
	TaskTypeAPI    TaskType = "API"    // 手动触发
)
