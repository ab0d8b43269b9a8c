package generator

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrNetwork は通信そのものの失敗（名前解決、接続、タイムアウト、キャンセル）です。
	ErrNetwork = errors.New("network error")
	// ErrAPI は画像APIがエラーを返した、または画像として使えない応答だった場合です。
	ErrAPI = errors.New("image api error")
)

// FetchError は画像取得の失敗を分類付きで保持します。
// errors.Is で Kind と元のエラーの両方を判定できます。
type FetchError struct {
	Kind error
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// classify は HTTP クライアントが返したエラーを ErrNetwork / ErrAPI に振り分けます。
// ステータスコード起因のエラーは net.Error を実装しないため ErrAPI 側になります。
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrNetwork
	}
	return ErrAPI
}
