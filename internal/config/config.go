package config

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shouni/go-utils/envutil"

	"github.com/shouni/dream-canvas-kit/pkg/catalog"
	"github.com/shouni/dream-canvas-kit/pkg/generator"
)

// デフォルト値の定義なのだ
const (
	DefaultHTTPTimeout       = 60 * time.Second
	DefaultHTTPMaxRetries    = 3
	DefaultHTTPRetryInterval = time.Second
	DefaultOutputDir         = "output/images"
	DefaultExportWorkers     = 4
)

// Config はアプリケーション全体の環境設定を保持する構造体なのだ。
type Config struct {
	APIBaseURL  string
	HTTPTimeout time.Duration
	// HTTPMaxRetries は 5xx と通信エラーの再試行回数なのだ。httpkit は 0 を 3 とみなすので 1 以上になります。
	HTTPMaxRetries    int
	HTTPRetryInterval time.Duration
	// AllowPrivateNetwork は localhost などのミラーへの接続を許可します (SSRF 検証を外す)。
	AllowPrivateNetwork bool

	DefaultStyle  string
	DefaultRatio  string
	OutputDir     string
	ExportWorkers int

	Options GenerateOptions
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	Style       string // --style
	Ratio       string // --ratio
	OutputFile  string // --output: ローカル or gs://...
	OutputDir   string // --output-dir
	URLOnly     bool   // --url-only: URL を表示するだけで取得しない
	JPEGQuality int    // --jpeg-quality: 0 なら再エンコードしない
	Verbose     bool   // --verbose

	HTTPTimeout time.Duration // --http-timeout
}

// LoadConfig は .env（あれば）と環境変数から設定を読み込むのだ！
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env を読み込まずに続行します", "error", err)
	}

	cfg := &Config{
		APIBaseURL:          envutil.GetEnv("DREAMCANVAS_API_BASE_URL", generator.DefaultBaseURL),
		HTTPTimeout:         parseDuration(envutil.GetEnv("DREAMCANVAS_HTTP_TIMEOUT", ""), DefaultHTTPTimeout),
		HTTPMaxRetries:      parseInt(envutil.GetEnv("DREAMCANVAS_HTTP_MAX_RETRIES", ""), DefaultHTTPMaxRetries),
		HTTPRetryInterval:   parseDuration(envutil.GetEnv("DREAMCANVAS_HTTP_RETRY_INTERVAL", ""), DefaultHTTPRetryInterval),
		AllowPrivateNetwork: parseBool(envutil.GetEnv("DREAMCANVAS_HTTP_ALLOW_PRIVATE", "")),
		DefaultStyle:        envutil.GetEnv("DREAMCANVAS_DEFAULT_STYLE", catalog.DefaultStyle().ID),
		DefaultRatio:        envutil.GetEnv("DREAMCANVAS_DEFAULT_RATIO", catalog.DefaultRatio().ID),
		OutputDir:           envutil.GetEnv("DREAMCANVAS_OUTPUT_DIR", DefaultOutputDir),
		ExportWorkers:       parseInt(envutil.GetEnv("DREAMCANVAS_EXPORT_WORKERS", ""), DefaultExportWorkers),
	}
	return cfg
}

// Apply は CLI フラグで指定された値を環境設定より優先させるのだ。
func (c *Config) Apply(opts GenerateOptions) {
	c.Options = opts
	if opts.Style != "" {
		c.DefaultStyle = opts.Style
	}
	if opts.Ratio != "" {
		c.DefaultRatio = opts.Ratio
	}
	if opts.OutputDir != "" {
		c.OutputDir = opts.OutputDir
	}
	if opts.HTTPTimeout > 0 {
		c.HTTPTimeout = opts.HTTPTimeout
	}
}

// parseDuration は "30s" 形式と秒数の整数の両方を受け付けるのだ。
func parseDuration(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if sec, err := strconv.Atoi(raw); err == nil && sec > 0 {
		return time.Duration(sec) * time.Second
	}
	slog.Warn("不正な時間指定のためデフォルト値を使います", "value", raw, "default", def)
	return def
}

func parseInt(raw string, def int) int {
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	return def
}

func parseBool(raw string) bool {
	b, err := strconv.ParseBool(raw)
	return err == nil && b
}
