package generator

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const upperHex = "0123456789ABCDEF"

// EncodeURIComponent は JavaScript の encodeURIComponent と同じ規則で文字列を
// パーセントエンコードします。英数字と - _ . ! ~ * ' ( ) 以外のバイトは %XX になります。
func EncodeURIComponent(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedComponent(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperHex[c>>4])
		sb.WriteByte(upperHex[c&0x0F])
	}
	return sb.String()
}

func isUnreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// validateImageURL は、取得先が許可された画像APIのホストであることを検証します。
// スキームは http / https のみ許可します。
func validateImageURL(rawURL, allowedHost string) (*url.URL, error) {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return nil, fmt.Errorf("URLパース失敗: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("不許可スキーム: %s", parsedURL.Scheme)
	}

	if !strings.EqualFold(parsedURL.Host, allowedHost) {
		return nil, fmt.Errorf("許可されていないホストへのアクセスを検知: %s", parsedURL.Host)
	}

	return parsedURL, nil
}

// queryInt はクエリパラメータを整数として読み取ります。読めなければ 0 を返すのだ。
func queryInt(u *url.URL, key string) int64 {
	v, err := strconv.ParseInt(u.Query().Get(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
