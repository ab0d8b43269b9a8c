package studio

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shouni/dream-canvas-kit/pkg/catalog"
	"github.com/shouni/dream-canvas-kit/pkg/domain"
	"github.com/shouni/dream-canvas-kit/pkg/generator"
	"github.com/shouni/dream-canvas-kit/pkg/history"
)

// EmptyPromptMessage はプロンプトが空のときにユーザーへ見せる固定メッセージです。
const EmptyPromptMessage = "Add a creative prompt to begin."

var (
	ErrEmptyPrompt  = errors.New("empty prompt")
	ErrUnknownStyle = errors.New("unknown style")
	ErrUnknownRatio = errors.New("unknown aspect ratio")
)

// Status は State から導出される表示上のフェーズです。
type Status string

const (
	StatusIdle       Status = "idle"
	StatusError      Status = "error"
	StatusRequesting Status = "requesting"
	StatusDisplaying Status = "displaying"
)

// State は画面全体の状態です。すべての更新は下の純粋関数を通して行い、
// 引数の State は書き換えずに新しい State を返します。
type State struct {
	Prompt    string                  `json:"prompt"`
	StyleID   string                  `json:"style_id"`
	RatioID   string                  `json:"ratio_id"`
	Active    *domain.GeneratedImage  `json:"active,omitempty"`
	History   []domain.GeneratedImage `json:"history"`
	Loading   bool                    `json:"loading"`
	PendingID int64                   `json:"pending_id,omitempty"` // 読み込み待ちのレコードID
	Error     string                  `json:"error,omitempty"`      // 入力検証のエラー
	LoadError string                  `json:"load_error,omitempty"` // 直近の画像取得の失敗
}

// NewState は初期状態を返します。
func NewState() State {
	return State{
		Prompt:  catalog.DefaultPrompt(),
		StyleID: catalog.DefaultStyle().ID,
		RatioID: catalog.DefaultRatio().ID,
		History: []domain.GeneratedImage{},
	}
}

// Style は選択中の画風を返します。
func (s State) Style() *domain.StylePreset {
	return catalog.StyleOrDefault(s.StyleID)
}

// Ratio は選択中のアスペクト比を返します。
func (s State) Ratio() *domain.AspectOption {
	return catalog.RatioOrDefault(s.RatioID)
}

// Status は表示フェーズを返します。読み込み中が最優先です。
func (s State) Status() Status {
	switch {
	case s.Loading:
		return StatusRequesting
	case s.Error != "":
		return StatusError
	case s.Active != nil:
		return StatusDisplaying
	default:
		return StatusIdle
	}
}

// Clone は履歴スライスと Active を複製した State を返します。
func (s State) Clone() State {
	out := s
	out.History = append([]domain.GeneratedImage{}, s.History...)
	if s.Active != nil {
		active := *s.Active
		out.Active = &active
	}
	return out
}

// SetPrompt はプロンプトを書き換えます。トリムはしません。
func SetPrompt(s State, prompt string) State {
	next := s.Clone()
	next.Prompt = prompt
	return next
}

// SelectStyle は画風を切り替えます。未知の ID の場合は状態を変えずにエラーを返します。
func SelectStyle(s State, id string) (State, error) {
	if _, ok := catalog.Style(id); !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownStyle, id)
	}
	next := s.Clone()
	next.StyleID = id
	return next, nil
}

// SelectRatio はアスペクト比を切り替えます。
func SelectRatio(s State, id string) (State, error) {
	if _, ok := catalog.Ratio(id); !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownRatio, id)
	}
	next := s.Clone()
	next.RatioID = id
	return next, nil
}

// ApplyQuickPrompt はサンプルプロンプトを index 番目のものに置き換えます。
func ApplyQuickPrompt(s State, index int) (State, error) {
	prompts := catalog.QuickPrompts()
	if index < 0 || index >= len(prompts) {
		return s, fmt.Errorf("quick prompt index out of range: %d", index)
	}
	return SetPrompt(s, prompts[index]), nil
}

// Shuffle はサンプルプロンプトからひとつ選んで置き換えます。
// pick は [0, n) の値を返す関数です。
func Shuffle(s State, pick func(n int) int) State {
	prompts := catalog.QuickPrompts()
	return SetPrompt(s, prompts[pick(len(prompts))])
}

// Generate はプロンプトを検証し、画像URLを組み立てて新しいレコードを作ります。
// 空のプロンプトの場合は履歴と Active を保ったまま ErrEmptyPrompt を返すのだ。
func Generate(s State, now time.Time, builder generator.RequestBuilder) (State, *domain.GeneratedImage, error) {
	trimmed := strings.TrimSpace(s.Prompt)
	if trimmed == "" {
		next := s.Clone()
		next.Error = EmptyPromptMessage
		return next, nil, ErrEmptyPrompt
	}

	style, ratio := s.Style(), s.Ratio()
	img := domain.GeneratedImage{
		ID:     now.UnixMilli(),
		URL:    builder.BuildImageURL(trimmed, style, ratio),
		Prompt: trimmed,
		Style:  style,
		Ratio:  ratio,
	}

	next := s.Clone()
	next.Error = ""
	next.LoadError = ""
	next.Active = &img
	next.History = history.Record(s.History, img)
	next.Loading = true
	next.PendingID = img.ID

	created := img
	return next, &created, nil
}

// CompleteLoad は画像の読み込み完了を反映します。
// id が待機中のレコードでなければ、すでに置き換えられた読み込みなので無視します。
func CompleteLoad(s State, id int64, loadErr error) State {
	if !s.Loading || id != s.PendingID {
		return s
	}
	next := s.Clone()
	next.Loading = false
	next.PendingID = 0
	if loadErr != nil {
		next.LoadError = loadErr.Error()
	}
	return next
}
