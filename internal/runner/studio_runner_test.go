package runner

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/dream-canvas-kit/pkg/catalog"
	"github.com/shouni/dream-canvas-kit/pkg/studio"
)

func runStudio(t *testing.T, script string, fetcher *mockFetcher, writer *mockWriter) (string, *studio.Session) {
	t.Helper()
	session := newTestSession(t, fetcher)
	exporter := NewHistoryExportRunner(fetcher, writer, 2)
	var out bytes.Buffer
	sr := NewStudioRunner(session, exporter, "gs://bucket/studio", strings.NewReader(script), &out)

	require.NoError(t, sr.Run(context.Background()))
	return out.String(), session
}

func TestStudioRunner_Run(t *testing.T) {
	t.Run("生成して待ち、履歴を表示する", func(t *testing.T) {
		script := strings.Join([]string{
			"prompt a red fox",
			"style noir",
			"ratio landscape",
			"generate",
			"wait",
			"history",
			"quit",
		}, "\n")

		out, session := runStudio(t, script, &mockFetcher{data: []byte("png")}, &mockWriter{})

		assert.Contains(t, out, `prompt: "a red fox"`)
		assert.Contains(t, out, "style: Noir Render")
		assert.Contains(t, out, "ratio: "+catalog.RatioOrDefault("landscape").Label+" (1024x576)")
		assert.Contains(t, out, "generating #1700000000000")
		assert.Contains(t, out, "https://image.pollinations.ai/prompt/a%20red%20fox")
		assert.Contains(t, out, "loaded #1700000000000: image/png 8x8 (3 bytes)")
		assert.Contains(t, out, "1 capture\n")

		st := session.State()
		require.Len(t, st.History, 1)
		assert.Equal(t, "noir", st.History[0].Style.ID)
		assert.Equal(t, "landscape", st.History[0].Ratio.ID)
	})

	t.Run("空のプロンプトでは固定メッセージを表示する", func(t *testing.T) {
		out, session := runStudio(t, "prompt   \ngenerate\n", &mockFetcher{}, &mockWriter{})

		assert.Contains(t, out, studio.EmptyPromptMessage)
		assert.Empty(t, session.State().History)
	})

	t.Run("不正な入力はエラーを表示して続行する", func(t *testing.T) {
		script := "style vaporwave\nratio 21:9\nquick 99\nfly\nstate\n"

		out, session := runStudio(t, script, &mockFetcher{}, &mockWriter{})

		assert.Contains(t, out, "error: unknown style")
		assert.Contains(t, out, "error: unknown aspect ratio")
		assert.Contains(t, out, "error: quick prompt index out of range")
		assert.Contains(t, out, `error: unknown command "fly"`)
		assert.Contains(t, out, "status: idle")
		assert.Equal(t, catalog.DefaultStyle().ID, session.State().StyleID)
	})

	t.Run("quick と shuffle でサンプルプロンプトを使う", func(t *testing.T) {
		prompts := catalog.QuickPrompts()

		out, session := runStudio(t, "quick 2\nshuffle\n", &mockFetcher{}, &mockWriter{})

		assert.Contains(t, out, `prompt: "`+prompts[1]+`"`)
		// テスト用の picker は常に最後の要素を選ぶのだ
		assert.Equal(t, prompts[len(prompts)-1], session.State().Prompt)
	})

	t.Run("save は履歴を保存先に書き出す", func(t *testing.T) {
		writer := &mockWriter{}
		script := "prompt one\ngenerate\nwait\nprompt two\ngenerate\nwait\nsave\nhistory\n"

		out, _ := runStudio(t, script, &mockFetcher{data: []byte("png")}, writer)

		assert.Contains(t, out, "saved #1700000000001 -> gs://bucket/studio/dreamcanvas-1700000000001.png")
		assert.Contains(t, out, "saved #1700000000000 -> gs://bucket/studio/dreamcanvas-1700000000000.png")
		assert.Contains(t, out, "2 captures\n")
		assert.Len(t, writer.paths(), 2)
	})

	t.Run("履歴が空なら save は何もしない", func(t *testing.T) {
		writer := &mockWriter{}

		out, _ := runStudio(t, "save out\nwait\n", &mockFetcher{}, writer)

		assert.Contains(t, out, "history is empty")
		assert.Contains(t, out, "nothing is loading")
		assert.Empty(t, writer.paths())
	})
}
