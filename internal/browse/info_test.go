package browse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInfoFetcher 可编程的服务端概览桩
type fakeInfoFetcher struct {
	info     string
	infoErr  error
	keyspace map[int]int64
	dbSize   int64
	sizeErr  error
}

func (f *fakeInfoFetcher) Info(ctx context.Context, sections ...string) (string, error) {
	return f.info, f.infoErr
}

func (f *fakeInfoFetcher) KeyspaceInfo(ctx context.Context) map[int]int64 {
	return f.keyspace
}

func (f *fakeInfoFetcher) DBSize(ctx context.Context) (int64, error) {
	return f.dbSize, f.sizeErr
}

const sampleServerInfo = "# Server\r\nredis_version:7.2.4\r\nredis_mode:standalone\r\nos:Linux 6.1.0\r\nuptime_in_seconds:86400\r\n"

// TestFetchOverview 三路并发收集齐全
func TestFetchOverview(t *testing.T) {
	fetcher := &fakeInfoFetcher{
		info:     sampleServerInfo,
		keyspace: map[int]int64{0: 47, 2: 3},
		dbSize:   47,
	}

	overview, err := FetchOverview(context.Background(), fetcher)
	require.NoError(t, err)

	assert.Equal(t, "7.2.4", overview.Version())
	assert.Equal(t, "standalone", overview.Server["redis_mode"])
	assert.Equal(t, int64(47), overview.Keyspace[0])
	assert.Equal(t, int64(3), overview.Keyspace[2])
	assert.Equal(t, int64(47), overview.DBSize)
}

// TestFetchOverview_SoftFailures 单项失败降级为零值，整体不报错
func TestFetchOverview_SoftFailures(t *testing.T) {
	fetcher := &fakeInfoFetcher{
		infoErr: errors.New("ERR unknown command 'INFO'"),
		sizeErr: errors.New("ERR unknown command 'DBSIZE'"),
	}

	overview, err := FetchOverview(context.Background(), fetcher)
	require.NoError(t, err)

	assert.Equal(t, "unknown", overview.Version())
	assert.Empty(t, overview.Server)
	assert.Zero(t, overview.DBSize)
}

// TestFetchOverview_Cancelled 上下文取消让整体失败
func TestFetchOverview_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeInfoFetcher{infoErr: ctx.Err()}
	_, err := FetchOverview(ctx, fetcher)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestOverview_Version 版本字段兜底
func TestOverview_Version(t *testing.T) {
	o := &Overview{Server: map[string]string{}}
	assert.Equal(t, "unknown", o.Version())

	o.Server["redis_version"] = ""
	assert.Equal(t, "unknown", o.Version())

	o.Server["redis_version"] = "6.2.14"
	assert.Equal(t, "6.2.14", o.Version())
}

// TestParseInfoSection INFO 输出解析
func TestParseInfoSection(t *testing.T) {
	parsed := parseInfoSection(sampleServerInfo)
	assert.Equal(t, "7.2.4", parsed["redis_version"])
	assert.Equal(t, "Linux 6.1.0", parsed["os"])
	assert.NotContains(t, parsed, "# Server")

	assert.Empty(t, parseInfoSection(""))
	assert.Empty(t, parseInfoSection("# Keyspace\r\n\r\n"))
}
