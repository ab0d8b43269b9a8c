package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/shouni/dream-canvas-kit/pkg/domain"
	"github.com/shouni/dream-canvas-kit/pkg/imgutil"
)

// PollinationsFetcher は組み立て済みのURLから画像を取得します。
// ブラウザの画像読み込みに相当する部分です。自身では再試行せず、
// 再試行の方針は注入された HTTPClient (本番では httpkit) に任せます。
type PollinationsFetcher struct {
	httpClient  HTTPClient
	allowedHost string
}

// NewPollinationsFetcher は依存関係を注入して PollinationsFetcher を初期化します。
// baseURL のホストだけが取得先として許可されます。
func NewPollinationsFetcher(httpClient HTTPClient, baseURL string) (*PollinationsFetcher, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid base url: %q", baseURL)
	}

	return &PollinationsFetcher{
		httpClient:  httpClient,
		allowedHost: u.Host,
	}, nil
}

// Fetch は画像をダウンロードし、MIMEタイプと寸法を添えて返します。
// 失敗はすべて *FetchError で、Kind は ErrNetwork か ErrAPI です。
func (f *PollinationsFetcher) Fetch(ctx context.Context, rawURL string) (*domain.ImageResponse, error) {
	u, err := validateImageURL(rawURL, f.allowedHost)
	if err != nil {
		return nil, &FetchError{Kind: ErrAPI, URL: rawURL, Err: err}
	}

	data, err := f.httpClient.FetchBytes(ctx, rawURL)
	if err != nil {
		return nil, &FetchError{Kind: classify(err), URL: rawURL, Err: err}
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, &FetchError{Kind: ErrAPI, URL: rawURL, Err: fmt.Errorf("画像ではない応答です (detected_mime_type: %s)", mimeType)}
	}

	resp := &domain.ImageResponse{
		Data:     data,
		MimeType: mimeType,
		Seed:     queryInt(u, "seed"),
	}

	info, err := imgutil.Inspect(data)
	if err != nil {
		// 標準ライブラリが読めない形式 (webp 等) でも画像としては扱うのだ
		slog.WarnContext(ctx, "画像の寸法を読み取れませんでした", "mime_type", mimeType, "error", err)
		return resp, nil
	}
	resp.Width, resp.Height = info.Width, info.Height

	wantW, wantH := int(queryInt(u, "width")), int(queryInt(u, "height"))
	if wantW > 0 && wantH > 0 && !info.Matches(wantW, wantH) {
		slog.WarnContext(ctx, "画像APIが指定と異なる寸法を返しました",
			"want_width", wantW, "want_height", wantH,
			"got_width", info.Width, "got_height", info.Height)
	}

	return resp, nil
}
