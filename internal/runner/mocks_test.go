package runner

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shouni/dream-canvas-kit/pkg/domain"
	"github.com/shouni/dream-canvas-kit/pkg/generator"
	"github.com/shouni/dream-canvas-kit/pkg/studio"
)

// --- Mocks ---

// mockFetcher は URL ごとの失敗指定ができる ImageFetcher なのだ。
type mockFetcher struct {
	data     []byte
	mimeType string
	err      error
	failURLs map[string]error
	delay    time.Duration

	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (m *mockFetcher) Fetch(ctx context.Context, rawURL string) (*domain.ImageResponse, error) {
	m.calls.Add(1)
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		cur := m.maxSeen.Load()
		if n <= cur || m.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, &generator.FetchError{Kind: generator.ErrNetwork, URL: rawURL, Err: ctx.Err()}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	if err, ok := m.failURLs[rawURL]; ok {
		return nil, err
	}
	mimeType := m.mimeType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return &domain.ImageResponse{Data: m.data, MimeType: mimeType, Width: 8, Height: 8}, nil
}

// mockWriter は書き込まれた内容をメモリに保持するのだ。
type mockWriter struct {
	mu    sync.Mutex
	files map[string][]byte
	types map[string]string
	err   error
}

func (m *mockWriter) Write(ctx context.Context, path string, r io.Reader, contentType string) error {
	if m.err != nil {
		return m.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = map[string][]byte{}
		m.types = map[string]string{}
	}
	m.files[path] = b
	m.types[path] = contentType
	return nil
}

func (m *mockWriter) paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	return out
}

// newTestSession は固定シード・固定時刻の URLBuilder でセッションを作るのだ。
func newTestSession(t *testing.T, fetcher generator.ImageFetcher) *studio.Session {
	t.Helper()
	b := generator.NewURLBuilder(
		generator.WithRandom(func(n int) int { return 7 }),
		generator.WithClock(func() time.Time { return time.UnixMilli(1700000000000) }),
	)
	clock := time.UnixMilli(1700000000000)
	session, err := studio.NewSession(b, fetcher,
		studio.WithSessionClock(func() time.Time { return clock }),
		studio.WithPicker(func(n int) int { return n - 1 }),
	)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	t.Cleanup(session.Close)
	return session
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: 80, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}
