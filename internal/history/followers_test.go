package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func followerRows(t *testing.T, dir string) []map[string]string {
	t.Helper()
	_, rows, err := readRows(filepath.Join(dir, FollowersFile))
	require.NoError(t, err)
	return rows
}

func TestAppendFollowerFirstObservation(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, AppendFollower(dir, 120, true))

	rows := followerRows(t, dir)
	require.Len(t, rows, 1, "首次观测总是记录")
	assert.Equal(t, "120", rows[0]["follower_count"])
	assert.NotEmpty(t, rows[0]["date"])
	assert.NotEmpty(t, rows[0]["time"])
}

func TestAppendFollowerSuppressesUnchanged(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, AppendFollower(dir, 120, true))
	require.NoError(t, AppendFollower(dir, 120, true))

	assert.Len(t, followerRows(t, dir), 1, "数值没变就不追加")

	require.NoError(t, AppendFollower(dir, 121, true))
	rows := followerRows(t, dir)
	require.Len(t, rows, 2, "变化了才追加恰好一行")
	assert.Equal(t, "121", rows[1]["follower_count"])
}

func TestAppendFollowerUnknownSkips(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, AppendFollower(dir, 0, false))

	_, err := os.Stat(filepath.Join(dir, FollowersFile))
	assert.True(t, os.IsNotExist(err), "这轮没取到粉丝数时不动文件")
}

func TestAppendFollowerMigratesLegacyHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FollowersFile)

	// 旧格式文件：找不到 follower_count 列
	raw := "日付,時刻,フォロワー数\n2024/03/01,06:00:00,120\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	require.NoError(t, AppendFollower(dir, 120, true))
	require.NoError(t, AppendFollower(dir, 120, true))

	header, rows, err := readRows(path)
	require.NoError(t, err)
	assert.Equal(t, FollowersHeader, header, "旧表头整文件重建为新表头")
	require.Len(t, rows, 1, "迁移后首次观测记录一行，随后相同数值被去重")
	assert.Equal(t, "120", rows[0]["follower_count"])
}

func TestAppendFollowerComparesAgainstLastNonEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FollowersFile)

	// 手工构造带空值行的历史（千分位逗号也要能剥掉）
	raw := "date,time,follower_count\n2024/03/01,06:00:00,\"1,200\"\n2024/03/02,06:00:00,\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	require.NoError(t, AppendFollower(dir, 1200, true))
	assert.Len(t, followerRows(t, dir), 2, "从末尾往前找到 1,200，相等则跳过")

	require.NoError(t, AppendFollower(dir, 1201, true))
	assert.Len(t, followerRows(t, dir), 3)
}
