package builder

import (
	"fmt"

	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/dream-canvas-kit/internal/config"
	"github.com/shouni/dream-canvas-kit/pkg/generator"
	"github.com/shouni/dream-canvas-kit/pkg/studio"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持します。
type AppContext struct {
	Config  *config.Config
	Builder *generator.URLBuilder
	Fetcher generator.ImageFetcher
	Writer  ImageWriter
}

// BuildAppContext は設定から HTTP クライアント、URLビルダー、フェッチャー、保存先を組み立てます。
func BuildAppContext(cfg *config.Config) (*AppContext, error) {
	return NewAppContext(cfg, NewHTTPClient(cfg), NewImageWriter())
}

// NewHTTPClient は設定の再試行方針と SSRF 検証の有無を反映した httpkit クライアントを作ります。
// 5xx と通信エラーは最大 HTTPMaxRetries 回まで再試行され、4xx とキャンセルは再試行されません。
// extra はテストで Doer を差し込むためのものなのだ。
func NewHTTPClient(cfg *config.Config, extra ...httpkit.ClientOption) *httpkit.Client {
	opts := []httpkit.ClientOption{
		httpkit.WithSkipNetworkValidation(cfg.AllowPrivateNetwork),
	}
	if cfg.HTTPMaxRetries > 0 {
		opts = append(opts, httpkit.WithMaxRetries(uint64(cfg.HTTPMaxRetries)))
	}
	if cfg.HTTPRetryInterval > 0 {
		opts = append(opts,
			httpkit.WithInitialInterval(cfg.HTTPRetryInterval),
			httpkit.WithMaxInterval(cfg.HTTPRetryInterval*maxIntervalFactor),
		)
	}
	opts = append(opts, extra...)
	return httpkit.New(cfg.HTTPTimeout, opts...)
}

// maxIntervalFactor は初期間隔に対するバックオフ上限の倍率です。
const maxIntervalFactor = 8

// NewAppContext は依存関係を注入して AppContext を生成します。テストではこちらを使うのだ。
func NewAppContext(cfg *config.Config, httpClient generator.HTTPClient, writer ImageWriter) (*AppContext, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if writer == nil {
		return nil, fmt.Errorf("writer is required")
	}

	urlBuilder := generator.NewURLBuilder(generator.WithBaseURL(cfg.APIBaseURL))
	fetcher, err := generator.NewPollinationsFetcher(httpClient, urlBuilder.BaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to create image fetcher: %w", err)
	}

	return &AppContext{
		Config:  cfg,
		Builder: urlBuilder,
		Fetcher: fetcher,
		Writer:  writer,
	}, nil
}

// NewSession は設定の既定スタイル・比率を反映したセッションを作ります。
func (a *AppContext) NewSession(opts ...studio.SessionOption) (*studio.Session, error) {
	session, err := studio.NewSession(a.Builder, a.Fetcher, opts...)
	if err != nil {
		return nil, err
	}
	if err := session.SelectStyle(a.Config.DefaultStyle); err != nil {
		session.Close()
		return nil, err
	}
	if err := session.SelectRatio(a.Config.DefaultRatio); err != nil {
		session.Close()
		return nil, err
	}
	return session, nil
}
