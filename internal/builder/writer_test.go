package builder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	paths        []string
	contentTypes []string
	data         map[string][]byte
}

func (m *mockWriter) Write(ctx context.Context, path string, r io.Reader, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.paths = append(m.paths, path)
	m.contentTypes = append(m.contentTypes, contentType)
	m.data[path] = b
	return nil
}

func TestRoutingWriter(t *testing.T) {
	ctx := context.Background()

	t.Run("ローカルパスはディレクトリごと作成して書き込む", func(t *testing.T) {
		factoryCalled := false
		w := NewImageWriter().(*routingWriter)
		w.newGCSWriter = func(ctx context.Context) (ImageWriter, error) {
			factoryCalled = true
			return nil, errors.New("should not be called")
		}
		path := filepath.Join(t.TempDir(), "nested", "dir", "img.jpg")

		err := w.Write(ctx, path, strings.NewReader("jpeg-bytes"), "image/jpeg")

		require.NoError(t, err)
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "jpeg-bytes", string(got))
		assert.False(t, factoryCalled, "ローカル保存では GCS クライアントを作らないのだ")
	})

	t.Run("gs:// は GCS ライターに委譲し、クライアントは一度だけ作る", func(t *testing.T) {
		gcs := &mockWriter{}
		created := 0
		local := &mockWriter{}
		w := &routingWriter{local: local, newGCSWriter: func(ctx context.Context) (ImageWriter, error) {
			created++
			return gcs, nil
		}}

		require.NoError(t, w.Write(ctx, "gs://bucket/a.png", bytes.NewReader([]byte("a")), "image/png"))
		require.NoError(t, w.Write(ctx, "gs://bucket/b.png", bytes.NewReader([]byte("b")), "image/png"))

		assert.Equal(t, 1, created)
		assert.Equal(t, []string{"gs://bucket/a.png", "gs://bucket/b.png"}, gcs.paths)
		assert.Equal(t, []string{"image/png", "image/png"}, gcs.contentTypes)
		assert.Empty(t, local.paths)
	})

	t.Run("GCS クライアントの作成失敗はエラーになる", func(t *testing.T) {
		boom := errors.New("no credentials")
		w := &routingWriter{local: &mockWriter{}, newGCSWriter: func(ctx context.Context) (ImageWriter, error) { return nil, boom }}

		err := w.Write(ctx, "gs://bucket/a.png", strings.NewReader("a"), "image/png")

		assert.ErrorIs(t, err, boom)
	})

	t.Run("s3:// はクライアントを作らずにエラーにする", func(t *testing.T) {
		local := &mockWriter{}
		w := &routingWriter{local: local, newGCSWriter: func(ctx context.Context) (ImageWriter, error) {
			t.Fatal("GCS クライアントを作ってはいけないのだ")
			return nil, nil
		}}

		err := w.Write(ctx, "s3://bucket/a.png", strings.NewReader("a"), "image/png")

		assert.ErrorContains(t, err, "S3")
		assert.Empty(t, local.paths)
	})
}
