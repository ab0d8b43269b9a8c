package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/dream-canvas-kit/pkg/catalog"
	"github.com/shouni/dream-canvas-kit/pkg/domain"
)

func testHistory(n int) []domain.GeneratedImage {
	hist := make([]domain.GeneratedImage, n)
	for i := range hist {
		id := int64(1700000000000 + n - i)
		hist[i] = domain.GeneratedImage{
			ID:     id,
			URL:    fmt.Sprintf("https://image.pollinations.ai/prompt/img-%d?width=768&height=768", id),
			Prompt: fmt.Sprintf("prompt %d", i),
			Style:  catalog.DefaultStyle(),
			Ratio:  catalog.DefaultRatio(),
		}
	}
	return hist
}

func TestHistoryExportRunner_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("履歴と同じ順序で全件保存する", func(t *testing.T) {
		hist := testHistory(3)
		fetcher := &mockFetcher{data: []byte("png"), mimeType: "image/png"}
		writer := &mockWriter{}
		er := NewHistoryExportRunner(fetcher, writer, 2)

		exported, err := er.Run(ctx, hist, "gs://bucket/export")

		require.NoError(t, err)
		require.Len(t, exported, 3)
		for i, e := range exported {
			assert.Equal(t, hist[i].ID, e.ID)
			assert.Equal(t, fmt.Sprintf("gs://bucket/export/dreamcanvas-%d.png", hist[i].ID), e.Path)
			assert.Equal(t, []byte("png"), writer.files[e.Path])
		}
		assert.Equal(t, int32(3), fetcher.calls.Load())
	})

	t.Run("同時取得数は workers を超えない", func(t *testing.T) {
		fetcher := &mockFetcher{data: []byte("png"), delay: 20 * time.Millisecond}
		er := NewHistoryExportRunner(fetcher, &mockWriter{}, 2)

		_, err := er.Run(ctx, testHistory(8), "out")

		require.NoError(t, err)
		assert.LessOrEqual(t, fetcher.maxSeen.Load(), int32(2))
		assert.Equal(t, int32(8), fetcher.calls.Load())
	})

	t.Run("一件でも失敗したらエラーを返す", func(t *testing.T) {
		hist := testHistory(3)
		boom := errors.New("status 502")
		fetcher := &mockFetcher{data: []byte("png"), failURLs: map[string]error{hist[1].URL: boom}}
		er := NewHistoryExportRunner(fetcher, &mockWriter{}, 1)

		exported, err := er.Run(ctx, hist, "out")

		assert.ErrorIs(t, err, boom)
		assert.Nil(t, exported)
	})

	t.Run("空の履歴では何もしない", func(t *testing.T) {
		fetcher := &mockFetcher{}
		er := NewHistoryExportRunner(fetcher, &mockWriter{}, 0)

		exported, err := er.Run(ctx, nil, "out")

		require.NoError(t, err)
		assert.Empty(t, exported)
		assert.Equal(t, int32(0), fetcher.calls.Load())
		assert.Equal(t, 1, er.workers)
	})
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "gs://bucket/dir/1.jpg", JoinPath("gs://bucket/dir/", "1.jpg"))
	assert.Equal(t, "gs://bucket/dir/1.jpg", JoinPath("gs://bucket/dir", "1.jpg"))
	assert.Equal(t, "output/images/1.jpg", JoinPath("output/images", "1.jpg"))
	assert.Equal(t, "1.jpg", JoinPath("", "1.jpg"))
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, ".png", extensionFor("image/png"))
	assert.Equal(t, ".webp", extensionFor("image/webp"))
	assert.Equal(t, ".bin", extensionFor("application/octet-stream"))
}
