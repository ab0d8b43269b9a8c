package builder

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// ImageWriter は生成画像の保存先を抽象化します。remoteio.OutputWriter はこれを満たします。
type ImageWriter interface {
	Write(ctx context.Context, path string, r io.Reader, contentType string) error
}

// routingWriter は gs:// で始まるパスを GCS に、それ以外をローカルに書き込むのだ。
// GCS クライアントは最初に gs:// へ書き込むときまで作りません。
type routingWriter struct {
	local        ImageWriter
	newGCSWriter func(ctx context.Context) (ImageWriter, error)

	mu  sync.Mutex
	gcs ImageWriter
}

// NewImageWriter は保存先に応じて書き込み先を切り替える ImageWriter を返します。
func NewImageWriter() ImageWriter {
	return &routingWriter{
		// クライアントなしの UniversalIOWriter はローカル書き込みだけに使うのだ
		local:        remoteio.NewUniversalIOWriter(nil, nil),
		newGCSWriter: newGCSOutputWriter,
	}
}

func newGCSOutputWriter(ctx context.Context) (ImageWriter, error) {
	factory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}
	var writer remoteio.OutputWriter
	writer, err = factory.NewOutputWriter()
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS output writer: %w", err)
	}
	return writer, nil
}

func (w *routingWriter) Write(ctx context.Context, path string, r io.Reader, contentType string) error {
	switch {
	case remoteio.IsGCSURI(path):
		gcs, err := w.gcsWriter(ctx)
		if err != nil {
			return err
		}
		return gcs.Write(ctx, path, r, contentType)
	case remoteio.IsS3URI(path):
		return fmt.Errorf("S3 への保存には対応していません: %s", path)
	default:
		return w.local.Write(ctx, path, r, contentType)
	}
}

func (w *routingWriter) gcsWriter(ctx context.Context) (ImageWriter, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gcs != nil {
		return w.gcs, nil
	}
	gcs, err := w.newGCSWriter(ctx)
	if err != nil {
		return nil, err
	}
	w.gcs = gcs
	return gcs, nil
}
