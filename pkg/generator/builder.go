package generator

import (
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shouni/dream-canvas-kit/pkg/domain"
)

// URLBuilder は Pollinations 向けの画像取得URLを組み立てます。
// シードとタイムスタンプ以外は入力だけで決まるため、同じ入力からは
// 構造が同じでキャッシュされない別々のURLが得られます。
type URLBuilder struct {
	baseURL string
	intN    func(n int) int
	now     func() time.Time
}

// Option は URLBuilder の設定を変更します。
type Option func(*URLBuilder)

// WithBaseURL はエンドポイントを差し替えます。末尾の "/" は補完されます。
func WithBaseURL(baseURL string) Option {
	return func(b *URLBuilder) {
		if baseURL == "" {
			return
		}
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		b.baseURL = baseURL
	}
}

// WithRandom はシード生成に使う乱数関数を差し替えます。
// fn は [0, n) の値を返さなければなりません。
func WithRandom(fn func(n int) int) Option {
	return func(b *URLBuilder) {
		if fn != nil {
			b.intN = fn
		}
	}
}

// WithClock はキャッシュ回避用タイムスタンプの時計を差し替えます。
func WithClock(fn func() time.Time) Option {
	return func(b *URLBuilder) {
		if fn != nil {
			b.now = fn
		}
	}
}

// NewURLBuilder は URLBuilder を初期化します。
func NewURLBuilder(opts ...Option) *URLBuilder {
	b := &URLBuilder{
		baseURL: DefaultBaseURL,
		intN:    rand.IntN,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BaseURL は組み立てに使うエンドポイントを返します。
func (b *URLBuilder) BaseURL() string {
	return b.baseURL
}

// BuildImageURL は prompt と画風の断片を連結してパスに埋め込み、
// width, height, nologo, enhance, seed, t の順でクエリを付与します。
// prompt はそのまま使われるので、トリムは呼び出し側の責任です。
func (b *URLBuilder) BuildImageURL(prompt string, style *domain.StylePreset, ratio *domain.AspectOption) string {
	seed := b.intN(MaxSeed)
	encoded := EncodeURIComponent(prompt + promptSeparator + style.Prompt)

	// url.Values.Encode はキーをソートしてしまうため、順序を保って自前で並べるのだ
	params := [...][2]string{
		{"width", strconv.Itoa(ratio.Width)},
		{"height", strconv.Itoa(ratio.Height)},
		{"nologo", "true"},
		{"enhance", "true"},
		{"seed", strconv.Itoa(seed)},
		{"t", strconv.FormatInt(b.now().UnixMilli(), 10)},
	}

	var sb strings.Builder
	sb.WriteString(b.baseURL)
	sb.WriteString(encoded)
	sb.WriteByte('?')
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p[0]))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p[1]))
	}
	return sb.String()
}
