package builder

import (
	"fmt"
	"io"

	"github.com/shouni/dream-canvas-kit/internal/runner"
)

// BuildGenerateRunner は一回分の生成と保存を担当する Runner を構築します。
// 返されたクローザーでセッションを閉じてください。
func BuildGenerateRunner(appCtx *AppContext) (runner.GenerateRunner, func(), error) {
	session, err := appCtx.NewSession()
	if err != nil {
		return nil, nil, fmt.Errorf("セッションの初期化に失敗しました: %w", err)
	}

	opts := appCtx.Config.Options
	r := runner.NewDefaultGenerateRunner(session, appCtx.Writer, runner.GenerateOptions{
		OutputFile:  opts.OutputFile,
		OutputDir:   appCtx.Config.OutputDir,
		URLOnly:     opts.URLOnly,
		JPEGQuality: opts.JPEGQuality,
	})
	return r, session.Close, nil
}

// BuildHistoryExportRunner は履歴の一括保存を担当する Runner を構築します。
func BuildHistoryExportRunner(appCtx *AppContext) runner.ExportRunner {
	return runner.NewHistoryExportRunner(appCtx.Fetcher, appCtx.Writer, appCtx.Config.ExportWorkers)
}

// BuildStudioRunner は対話セッションを担当する Runner を構築します。
func BuildStudioRunner(appCtx *AppContext, in io.Reader, out io.Writer) (*runner.StudioRunner, error) {
	session, err := appCtx.NewSession()
	if err != nil {
		return nil, fmt.Errorf("セッションの初期化に失敗しました: %w", err)
	}
	return runner.NewStudioRunner(
		session,
		BuildHistoryExportRunner(appCtx),
		appCtx.Config.OutputDir,
		in,
		out,
	), nil
}
