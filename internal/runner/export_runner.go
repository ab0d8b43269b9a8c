package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/dream-canvas-kit/pkg/domain"
	"github.com/shouni/dream-canvas-kit/pkg/generator"

	"golang.org/x/sync/errgroup"
)

// ExportRunner は履歴の画像をまとめて保存するためのインターフェースです。
type ExportRunner interface {
	Run(ctx context.Context, history []domain.GeneratedImage, dir string) ([]ExportedImage, error)
}

// ExportedImage は保存した一枚分の記録なのだ。
type ExportedImage struct {
	ID   int64
	Path string
}

// HistoryExportRunner は履歴の URL を並列に取得し直して保存します。
type HistoryExportRunner struct {
	fetcher generator.ImageFetcher
	writer  ImageWriter
	workers int
}

// NewHistoryExportRunner は同時取得数 workers の HistoryExportRunner を返します。
// workers が 1 未満なら 1 として扱うのだ。
func NewHistoryExportRunner(fetcher generator.ImageFetcher, writer ImageWriter, workers int) *HistoryExportRunner {
	if workers < 1 {
		workers = 1
	}
	return &HistoryExportRunner{
		fetcher: fetcher,
		writer:  writer,
		workers: workers,
	}
}

// Run は history の各レコードを dir に保存し、履歴と同じ順序で結果を返します。
// どれか一枚でも失敗したら残りはキャンセルされるのだ。
func (er *HistoryExportRunner) Run(ctx context.Context, history []domain.GeneratedImage, dir string) ([]ExportedImage, error) {
	if len(history) == 0 {
		return nil, nil
	}

	exported := make([]ExportedImage, len(history))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(er.workers)

	slog.InfoContext(ctx, "履歴のエクスポートを開始するのだ", "count", len(history), "dir", dir, "workers", er.workers)

	for i, img := range history {
		eg.Go(func() error {
			resp, err := er.fetcher.Fetch(egCtx, img.URL)
			if err != nil {
				slog.ErrorContext(egCtx, "画像の取得に失敗したのだ", "image_id", img.ID, "error", err)
				return fmt.Errorf("image %d: %w", img.ID, err)
			}

			path := JoinPath(dir, imageFileName(img.ID, resp.MimeType))
			if err := er.writer.Write(egCtx, path, bytes.NewReader(resp.Data), resp.MimeType); err != nil {
				return fmt.Errorf("image %d: 保存に失敗しました (%s): %w", img.ID, path, err)
			}

			exported[i] = ExportedImage{ID: img.ID, Path: path}
			slog.DebugContext(egCtx, "画像を保存したのだ", "image_id", img.ID, "path", path)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "履歴のエクスポートが完了したのだ", "total", len(exported))
	return exported, nil
}
