package studio

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shouni/dream-canvas-kit/pkg/domain"
	"github.com/shouni/dream-canvas-kit/pkg/generator"
)

// Session は State をひとつ保持し、すべての更新を直列に適用するイベントループです。
// 画像の読み込みだけが非同期に完了し、その結果も同じロックの下で反映されます。
type Session struct {
	id       string
	builder  generator.RequestBuilder
	fetcher  generator.ImageFetcher
	now      func() time.Time
	pick     func(n int) int
	observer func(State)

	mu      sync.Mutex
	state   State
	current *Load
	lastID  int64
	closed  bool
	wg      sync.WaitGroup
}

// SessionOption は Session の設定を変更します。
type SessionOption func(*Session)

// WithSessionClock はレコードIDに使う時計を差し替えます。
func WithSessionClock(fn func() time.Time) SessionOption {
	return func(s *Session) { s.now = fn }
}

// WithPicker はシャッフルに使う乱数関数を差し替えます。
func WithPicker(fn func(n int) int) SessionOption {
	return func(s *Session) { s.pick = fn }
}

// WithObserver は状態が変わるたびにスナップショットを受け取る関数を登録します。
// observer はセッションのロック中に呼ばれるため、Session のメソッドを呼んではいけません。
func WithObserver(fn func(State)) SessionOption {
	return func(s *Session) { s.observer = fn }
}

// NewSession は依存関係を注入して Session を初期化します。
func NewSession(builder generator.RequestBuilder, fetcher generator.ImageFetcher, opts ...SessionOption) (*Session, error) {
	if builder == nil {
		return nil, fmt.Errorf("builder is required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}

	s := &Session{
		id:      uuid.NewString(),
		builder: builder,
		fetcher: fetcher,
		now:     time.Now,
		pick:    rand.IntN,
		state:   NewState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ID はログ用のセッション識別子です。
func (s *Session) ID() string { return s.id }

// State は現在の状態のコピーを返します。
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// SetPrompt はプロンプトを書き換えます。
func (s *Session) SetPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(SetPrompt(s.state, prompt))
}

// SelectStyle は画風を切り替えます。
func (s *Session) SelectStyle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := SelectStyle(s.state, id)
	if err != nil {
		return err
	}
	s.apply(next)
	return nil
}

// SelectRatio はアスペクト比を切り替えます。
func (s *Session) SelectRatio(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := SelectRatio(s.state, id)
	if err != nil {
		return err
	}
	s.apply(next)
	return nil
}

// ApplyQuickPrompt はサンプルプロンプトを適用します。
func (s *Session) ApplyQuickPrompt(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := ApplyQuickPrompt(s.state, index)
	if err != nil {
		return err
	}
	s.apply(next)
	return nil
}

// Shuffle はサンプルプロンプトからランダムにひとつ選びます。
func (s *Session) Shuffle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(Shuffle(s.state, s.pick))
	return s.state.Prompt
}

// Generate はレコードを作って履歴に積み、画像の読み込みを開始します。
// 前の読み込みがまだ終わっていなければキャンセルします。
// 検証に失敗した場合は ErrEmptyPrompt を返し、読み込みは開始しません。
func (s *Session) Generate(ctx context.Context) (*domain.GeneratedImage, *Load, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := s.record(ctx)
	if err != nil {
		return nil, nil, err
	}

	slog.InfoContext(ctx, "画像の生成を開始しました",
		"session", s.id,
		"image_id", img.ID,
		"style", img.Style.ID,
		"ratio", img.Ratio.ID)

	s.wg.Add(1)
	s.current = startLoad(ctx, img, s.fetcher, func(l *Load) {
		s.complete(ctx, l)
	}, s.wg.Done)
	return img, s.current, nil
}

// Compose は Generate と同じくレコードを作って履歴に積みますが、画像の取得は行いません。
// URL だけが欲しい場合に使うのだ。前の読み込みはキャンセルされます。
func (s *Session) Compose(ctx context.Context) (*domain.GeneratedImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := s.record(ctx)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "画像URLを組み立てました", "session", s.id, "image_id", img.ID)
	s.apply(CompleteLoad(s.state, img.ID, nil))
	return img, nil
}

// record は reducer の Generate を適用し、進行中の読み込みを止めます。ロック中に呼ぶこと。
func (s *Session) record(ctx context.Context) (*domain.GeneratedImage, error) {
	if s.closed {
		return nil, fmt.Errorf("session is closed")
	}

	next, img, err := Generate(s.state, s.nextTimestamp(), s.builder)
	s.apply(next)
	if err != nil {
		slog.InfoContext(ctx, "プロンプトが空のため生成を中止しました", "session", s.id)
		return nil, err
	}
	s.lastID = img.ID

	if s.current != nil {
		slog.DebugContext(ctx, "前の読み込みをキャンセルします", "session", s.id, "image_id", s.current.ID())
		s.current.Cancel()
		s.current = nil
	}
	return img, nil
}

// Close は進行中の読み込みをキャンセルし、すべての完了を待ちます。
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	if s.current != nil {
		s.current.Cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Session) complete(ctx context.Context, l *Load) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID() != s.state.PendingID {
		slog.DebugContext(ctx, "置き換え済みの読み込み完了を無視します", "session", s.id, "image_id", l.ID())
		return
	}
	if l.err != nil {
		slog.WarnContext(ctx, "画像の読み込みに失敗しました", "session", s.id, "image_id", l.ID(), "error", l.err)
	} else {
		slog.InfoContext(ctx, "画像の読み込みが完了しました", "session", s.id, "image_id", l.ID(), "bytes", len(l.resp.Data))
	}
	s.apply(CompleteLoad(s.state, l.ID(), l.err))
	if s.current == l {
		s.current = nil
	}
}

// nextTimestamp はレコードIDが単調増加になるように時刻を調整するのだ。
func (s *Session) nextTimestamp() time.Time {
	now := s.now()
	if now.UnixMilli() <= s.lastID {
		return time.UnixMilli(s.lastID + 1)
	}
	return now
}

func (s *Session) apply(next State) {
	s.state = next
	if s.observer != nil {
		s.observer(s.state.Clone())
	}
}
