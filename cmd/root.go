package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/dream-canvas-kit/internal/config"
)

// opts は各サブコマンドが共有する CLI フラグの値なのだ。
var opts config.GenerateOptions

var rootCmd = &cobra.Command{
	Use:   "dreamcanvas",
	Short: "プロンプトと画風から画像を生成する CLI なのだ。",
	Long: `DreamCanvas はプロンプトに画風の断片を足して Pollinations の画像URLを組み立て、
画像を取得して保存するのだ。studio コマンドでは対話的に何枚でも試せるのだよ。`,
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

// addAppFlags は、すべてのサブコマンドに効くグローバルフラグを定義するのだ。
func addAppFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&opts.Style, "style", "s", "", "画風の ID (dreamwave, aether, noir) なのだ。")
	cmd.PersistentFlags().StringVarP(&opts.Ratio, "ratio", "r", "", "比率の ID (square, portrait, landscape) なのだ。")
	cmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "d", "", "画像の保存先ディレクトリ（ローカル or gs://...）なのだ。")
	cmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", 0, "画像取得のタイムアウトなのだ。0 なら環境設定の値を使うのだ。")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "デバッグログを出力するのだ。")
}

// preRunAppE は、コマンド実行前にログの出力レベルを決めるのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig は環境設定を読み込み、CLI フラグで上書きした Config を返すのだ。
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.Apply(opts)
	return cfg
}

func init() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(generateCmd, studioCmd, presetsCmd)
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
