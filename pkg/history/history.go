package history

import (
	"fmt"

	"github.com/shouni/dream-canvas-kit/pkg/domain"
)

// Capacity はセッション履歴に残すレコードの最大数です。
const Capacity = 8

// Record は新しいレコードを先頭に追加した履歴を返します。
// 同じ ID を持つ既存レコードは取り除き、Capacity 件を超えた古いものは捨てます。
// 引数のスライスは変更しません。
func Record(prev []domain.GeneratedImage, img domain.GeneratedImage) []domain.GeneratedImage {
	next := make([]domain.GeneratedImage, 0, min(len(prev)+1, Capacity))
	next = append(next, img)
	for _, item := range prev {
		if len(next) == Capacity {
			break
		}
		if item.ID == img.ID {
			continue
		}
		next = append(next, item)
	}
	return next
}

// CaptureLabel は履歴ヘッダーに表示する件数ラベルです。
func CaptureLabel(n int) string {
	if n == 1 {
		return "1 capture"
	}
	return fmt.Sprintf("%d captures", n)
}
