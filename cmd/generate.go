package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shouni/dream-canvas-kit/internal/builder"
	"github.com/shouni/dream-canvas-kit/pkg/catalog"
	"github.com/shouni/dream-canvas-kit/pkg/studio"
)

// generateCmd は、プロンプトひとつ分の画像を生成して保存するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate [prompt...]",
	Short: "画像を一枚生成して保存しますなのだ。",
	Long: `引数のプロンプト（省略時はサンプルプロンプト）に画風を足して画像URLを組み立て、
取得した画像を保存するのだ。--url-only なら URL を表示するだけなのだよ。`,
	RunE: generateCommand,
}

func init() {
	generateCmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "", "保存パス（ローカル or gs://...）。省略時は出力ディレクトリに自動命名なのだ。")
	generateCmd.Flags().BoolVar(&opts.URLOnly, "url-only", false, "画像を取得せず URL だけを表示するのだ。")
	generateCmd.Flags().IntVarP(&opts.JPEGQuality, "jpeg-quality", "q", 0, "1〜100 を指定すると JPEG に再エンコードして保存するのだ。")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	prompt := strings.Join(args, " ")
	if len(args) == 0 {
		prompt = catalog.DefaultPrompt()
	}
	if opts.JPEGQuality < 0 || opts.JPEGQuality > 100 {
		return fmt.Errorf("--jpeg-quality は 0〜100 で指定してほしいのだ: %d", opts.JPEGQuality)
	}

	cfg := loadConfig()
	appCtx, err := builder.BuildAppContext(cfg)
	if err != nil {
		return fmt.Errorf("アプリケーションの初期化に失敗したのだ: %w", err)
	}

	r, closeSession, err := builder.BuildGenerateRunner(appCtx)
	if err != nil {
		return err
	}
	defer closeSession()

	slog.InfoContext(ctx, "画像生成を開始するのだ！",
		"style", cfg.DefaultStyle,
		"ratio", cfg.DefaultRatio,
		"output_dir", cfg.OutputDir)

	result, err := r.Run(ctx, prompt)
	if err != nil {
		if errors.Is(err, studio.ErrEmptyPrompt) {
			return errors.New(studio.EmptyPromptMessage)
		}
		return fmt.Errorf("画像生成中にエラーが発生したのだ: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Image.URL)
	if result.Path != "" {
		fmt.Fprintln(cmd.OutOrStdout(), result.Path)
	}
	return nil
}
