package generator

import (
	"context"

	"github.com/shouni/dream-canvas-kit/pkg/domain"
)

// HTTPClient は、URL からデータを取得するためのインターフェースです。
// httpkit.ClientInterface はこれを満たします。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// RequestBuilder は、プロンプトと画風・比率から画像URLを組み立てます。
type RequestBuilder interface {
	BuildImageURL(prompt string, style *domain.StylePreset, ratio *domain.AspectOption) string
}

// ImageFetcher は、組み立てたURLから実際に画像を取得します。
type ImageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*domain.ImageResponse, error)
}
