package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/dream-canvas-kit/internal/builder"
)

// studioCmd は、標準入力からコマンドを読む対話セッションを開始するのだ。
var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "対話的に画像を生成するセッションを開始しますなのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx, err := builder.BuildAppContext(loadConfig())
		if err != nil {
			return fmt.Errorf("アプリケーションの初期化に失敗したのだ: %w", err)
		}

		sr, err := builder.BuildStudioRunner(appCtx, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return sr.Run(cmd.Context())
	},
}
