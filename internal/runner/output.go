package runner

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const gcsScheme = "gs://"

// ImageWriter は画像の保存先です。builder.NewImageWriter の戻り値がこれを満たします。
type ImageWriter interface {
	Write(ctx context.Context, path string, r io.Reader, contentType string) error
}

// JoinPath は保存先ディレクトリとファイル名を連結します。
// gs:// のスキームを壊さないよう filepath.Join は使いません。
func JoinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.HasPrefix(dir, gcsScheme) {
		return strings.TrimSuffix(dir, "/") + "/" + name
	}
	return filepath.Join(dir, name)
}

// extensionFor は MIME タイプから拡張子を決めるのだ。
func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}

// imageFileName はレコードIDと MIME タイプからファイル名を作ります。
func imageFileName(id int64, mimeType string) string {
	return fmt.Sprintf("dreamcanvas-%d%s", id, extensionFor(mimeType))
}
