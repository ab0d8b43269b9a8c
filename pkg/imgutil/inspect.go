package imgutil

import (
	"bytes"
	"image"
)

// Info は画像ヘッダーから読み取れる情報です。
type Info struct {
	Format string
	Width  int
	Height int
}

// Inspect は画像全体をデコードせずにフォーマットと寸法を読み取ります。
func Inspect(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, err
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Matches は寸法が期待値と一致するかを返します。
func (i Info) Matches(width, height int) bool {
	return i.Width == width && i.Height == height
}
