package engine

import (
	"context"
	"testing"
	"time"

	"github.com/iceymoss/note-stats-tracker/internal/core"
	"github.com/iceymoss/note-stats-tracker/internal/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopTask struct{}

func (noopTask) Run(ctx context.Context, params map[string]any) (string, error) { return "ok", nil }
func (noopTask) Identifier() string                                             { return "test:noop" }

func TestAddJobReplacesSameName(t *testing.T) {
	tasks.Register("test:noop", func() core.Task { return noopTask{} })

	s := NewScheduler(time.UTC)

	require.NoError(t, s.AddJob("0 0 6 * * *", "test:noop", "test:noop", nil, "SYSTEM"))
	require.NoError(t, s.AddJob("0 30 7 * * *", "test:noop", "test:noop", map[string]any{"k": "v"}, "YAML"))

	// 同名重复登记只能留下一个 cron 条目，后来者覆盖
	assert.Len(t, s.cron.Entries(), 1, "同名任务不允许产生两个活动条目")
	assert.Equal(t, "0 30 7 * * *", s.Stats.Get("test:noop").CronExpr)
	assert.Equal(t, "v", s.registered["test:noop"].params["k"])
}
