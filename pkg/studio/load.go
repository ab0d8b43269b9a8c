package studio

import (
	"context"

	"github.com/shouni/dream-canvas-kit/pkg/domain"
	"github.com/shouni/dream-canvas-kit/pkg/generator"
)

// Load はレコードIDに紐づいた、キャンセル可能な画像読み込みです。
type Load struct {
	id     int64
	url    string
	cancel context.CancelFunc
	done   chan struct{}

	// 取得ゴルーチン以外からは done が閉じられた後にのみ読まれる
	resp *domain.ImageResponse
	err  error
}

// startLoad は fetcher による取得をゴルーチンで開始します。
// onResult は結果が確定した後、done を閉じる前に呼ばれます。
// onExit は done を閉じた後に呼ばれます。
func startLoad(parent context.Context, img *domain.GeneratedImage, fetcher generator.ImageFetcher, onResult func(*Load), onExit func()) *Load {
	ctx, cancel := context.WithCancel(parent)
	l := &Load{
		id:     img.ID,
		url:    img.URL,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer func() {
			cancel()
			close(l.done)
			if onExit != nil {
				onExit()
			}
		}()
		l.resp, l.err = fetcher.Fetch(ctx, l.url)
		if onResult != nil {
			onResult(l)
		}
	}()
	return l
}

// ID は読み込み対象のレコードIDです。
func (l *Load) ID() int64 { return l.id }

// URL は取得先です。
func (l *Load) URL() string { return l.url }

// Done は読み込みが終わると閉じられます。
func (l *Load) Done() <-chan struct{} { return l.done }

// Cancel は進行中の取得を中断します。完了後に呼んでも何も起きません。
func (l *Load) Cancel() { l.cancel() }

// Wait は完了を待って結果を返します。ctx が先に終わった場合は ctx のエラーを返すのだ。
func (l *Load) Wait(ctx context.Context) (*domain.ImageResponse, error) {
	select {
	case <-l.done:
		return l.resp, l.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
