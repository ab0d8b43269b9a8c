package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shouni/dream-canvas-kit/pkg/catalog"
	"github.com/shouni/dream-canvas-kit/pkg/history"
	"github.com/shouni/dream-canvas-kit/pkg/studio"
)

const studioHelp = `commands:
  prompt <text>   プロンプトを設定する
  style <id>      画風を選ぶ (dreamwave, aether, noir)
  ratio <id>      比率を選ぶ (square, portrait, landscape)
  shuffle         サンプルプロンプトからランダムに選ぶ
  quick <n>       n 番目のサンプルプロンプトを使う (1 始まり)
  generate        画像を生成する
  wait            読み込み中の画像を待つ
  history         生成履歴を表示する
  state           現在の状態を JSON で表示する
  save [dir]      履歴の画像を保存する
  help            このヘルプを表示する
  quit            終了する`

// StudioRunner は標準入力からコマンドを読む対話セッションです。
type StudioRunner struct {
	session  *studio.Session
	exporter ExportRunner
	saveDir  string

	in  io.Reader
	out io.Writer

	current *studio.Load
}

func NewStudioRunner(session *studio.Session, exporter ExportRunner, saveDir string, in io.Reader, out io.Writer) *StudioRunner {
	return &StudioRunner{
		session:  session,
		exporter: exporter,
		saveDir:  saveDir,
		in:       in,
		out:      out,
	}
}

// Run は quit か入力の終端までコマンドを処理します。終了時にセッションを閉じるのだ。
func (sr *StudioRunner) Run(ctx context.Context) error {
	defer sr.session.Close()

	sr.printf("DreamCanvas studio (session %s)\n", sr.session.ID())
	sr.printf("type 'help' for commands\n")

	scanner := bufio.NewScanner(sr.in)
	for {
		sr.printf("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		name, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		if name == "quit" || name == "exit" {
			return nil
		}
		if err := sr.dispatch(ctx, name, arg); err != nil {
			sr.printf("error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("入力の読み込みに失敗しました: %w", err)
	}
	return nil
}

func (sr *StudioRunner) dispatch(ctx context.Context, name, arg string) error {
	switch name {
	case "prompt":
		sr.session.SetPrompt(arg)
		sr.printf("prompt: %q\n", arg)
	case "style":
		if err := sr.session.SelectStyle(arg); err != nil {
			return err
		}
		sr.printf("style: %s\n", sr.session.State().Style().Name)
	case "ratio":
		if err := sr.session.SelectRatio(arg); err != nil {
			return err
		}
		r := sr.session.State().Ratio()
		sr.printf("ratio: %s (%dx%d)\n", r.Label, r.Width, r.Height)
	case "shuffle":
		sr.printf("prompt: %q\n", sr.session.Shuffle())
	case "quick":
		return sr.quick(arg)
	case "generate":
		return sr.generate(ctx)
	case "wait":
		return sr.wait(ctx)
	case "history":
		sr.history()
	case "state":
		return sr.state()
	case "save":
		return sr.save(ctx, arg)
	case "help":
		sr.printf("%s\n", studioHelp)
	default:
		return fmt.Errorf("unknown command %q (type 'help')", name)
	}
	return nil
}

func (sr *StudioRunner) quick(arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		prompts := catalog.QuickPrompts()
		for i, p := range prompts {
			sr.printf("  %d. %s\n", i+1, p)
		}
		return nil
	}
	if err := sr.session.ApplyQuickPrompt(n - 1); err != nil {
		return err
	}
	sr.printf("prompt: %q\n", sr.session.State().Prompt)
	return nil
}

func (sr *StudioRunner) generate(ctx context.Context) error {
	img, load, err := sr.session.Generate(ctx)
	if err != nil {
		if errors.Is(err, studio.ErrEmptyPrompt) {
			sr.printf("%s\n", studio.EmptyPromptMessage)
			return nil
		}
		return err
	}
	sr.current = load
	sr.printf("generating #%d (%s, %s)\n", img.ID, img.Style.Name, img.Ratio.Label)
	sr.printf("%s\n", img.URL)
	return nil
}

func (sr *StudioRunner) wait(ctx context.Context) error {
	if sr.current == nil {
		sr.printf("nothing is loading\n")
		return nil
	}
	load := sr.current
	sr.current = nil

	resp, err := load.Wait(ctx)
	if err != nil {
		return fmt.Errorf("image #%d failed to load: %w", load.ID(), err)
	}
	sr.printf("loaded #%d: %s %dx%d (%d bytes)\n", load.ID(), resp.MimeType, resp.Width, resp.Height, len(resp.Data))
	return nil
}

func (sr *StudioRunner) history() {
	st := sr.session.State()
	sr.printf("%s\n", history.CaptureLabel(len(st.History)))
	for i, img := range st.History {
		marker := " "
		if st.Active != nil && st.Active.ID == img.ID {
			marker = "*"
		}
		sr.printf("%s %d. #%d [%s/%s] %s\n", marker, i+1, img.ID, img.Style.ID, img.Ratio.ID, img.Prompt)
	}
}

func (sr *StudioRunner) state() error {
	b, err := json.MarshalIndent(sr.session.State(), "", "  ")
	if err != nil {
		return fmt.Errorf("状態のシリアライズに失敗しました: %w", err)
	}
	sr.printf("status: %s\n%s\n", sr.session.State().Status(), b)
	return nil
}

func (sr *StudioRunner) save(ctx context.Context, dir string) error {
	if dir == "" {
		dir = sr.saveDir
	}
	hist := sr.session.State().History
	if len(hist) == 0 {
		sr.printf("history is empty\n")
		return nil
	}

	exported, err := sr.exporter.Run(ctx, hist, dir)
	if err != nil {
		return err
	}
	for _, e := range exported {
		sr.printf("saved #%d -> %s\n", e.ID, e.Path)
	}
	return nil
}

func (sr *StudioRunner) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(sr.out, format, args...); err != nil {
		slog.Debug("出力に失敗しました", "error", err)
	}
}
