package studio

import (
	"context"
	"fmt"
	"sync"

	"github.com/shouni/dream-canvas-kit/pkg/domain"
	"github.com/shouni/dream-canvas-kit/pkg/generator"
)

// --- Mocks ---

// stubBuilder は呼び出し回数を埋め込んだURLを返すのだ。
type stubBuilder struct {
	mu    sync.Mutex
	calls int
}

func (b *stubBuilder) BuildImageURL(prompt string, style *domain.StylePreset, ratio *domain.AspectOption) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	return fmt.Sprintf("https://image.pollinations.ai/prompt/%s?style=%s&width=%d&height=%d&n=%d",
		generator.EncodeURIComponent(prompt), style.ID, ratio.Width, ratio.Height, b.calls)
}

// blockingFetcher は release が閉じられるか ctx が終わるまで応答しないのだ。
type blockingFetcher struct {
	release chan struct{}
	err     error
}

func newBlockingFetcher() *blockingFetcher {
	return &blockingFetcher{release: make(chan struct{})}
}

func (f *blockingFetcher) Fetch(ctx context.Context, rawURL string) (*domain.ImageResponse, error) {
	select {
	case <-ctx.Done():
		return nil, &generator.FetchError{Kind: generator.ErrNetwork, URL: rawURL, Err: ctx.Err()}
	case <-f.release:
		if f.err != nil {
			return nil, f.err
		}
		return &domain.ImageResponse{Data: []byte("fake"), MimeType: "image/jpeg"}, nil
	}
}

// instantFetcher はすぐに結果を返すのだ。
type instantFetcher struct {
	err error
}

func (f *instantFetcher) Fetch(ctx context.Context, rawURL string) (*domain.ImageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ImageResponse{Data: []byte("fake"), MimeType: "image/jpeg"}, nil
}
