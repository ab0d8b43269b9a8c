package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/dream-canvas-kit/pkg/domain"
	"github.com/shouni/dream-canvas-kit/pkg/imgutil"
	"github.com/shouni/dream-canvas-kit/pkg/studio"
)

// GenerateRunner はプロンプトひとつ分の生成から保存までを実行します。
type GenerateRunner interface {
	Run(ctx context.Context, prompt string) (*GenerateResult, error)
}

// GenerateResult は一回の生成の結果なのだ。URLOnly の場合 Response と Path は空です。
type GenerateResult struct {
	Image    *domain.GeneratedImage
	Response *domain.ImageResponse
	Path     string
}

// GenerateOptions は DefaultGenerateRunner の挙動を決めるパラメータです。
type GenerateOptions struct {
	OutputFile  string // 空なら OutputDir 配下に自動命名
	OutputDir   string
	URLOnly     bool
	JPEGQuality int // 0 なら取得したバイト列をそのまま保存
}

// DefaultGenerateRunner は studio.Session を使った標準実装です。
type DefaultGenerateRunner struct {
	session *studio.Session
	writer  ImageWriter
	options GenerateOptions
}

func NewDefaultGenerateRunner(session *studio.Session, writer ImageWriter, options GenerateOptions) *DefaultGenerateRunner {
	return &DefaultGenerateRunner{
		session: session,
		writer:  writer,
		options: options,
	}
}

func (r *DefaultGenerateRunner) Run(ctx context.Context, prompt string) (*GenerateResult, error) {
	r.session.SetPrompt(prompt)

	if r.options.URLOnly {
		img, err := r.session.Compose(ctx)
		if err != nil {
			return nil, err
		}
		return &GenerateResult{Image: img}, nil
	}

	img, load, err := r.session.Generate(ctx)
	if err != nil {
		return nil, err
	}
	result := &GenerateResult{Image: img}

	resp, err := load.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("画像の取得に失敗しました: %w", err)
	}

	if r.options.JPEGQuality > 0 {
		compressed, err := imgutil.CompressToJPEG(resp.Data, r.options.JPEGQuality)
		if err != nil {
			return nil, fmt.Errorf("JPEG への変換に失敗しました: %w", err)
		}
		slog.DebugContext(ctx, "JPEG に再エンコードしました", "before", len(resp.Data), "after", len(compressed))
		resp = &domain.ImageResponse{
			Data:     compressed,
			MimeType: "image/jpeg",
			Width:    resp.Width,
			Height:   resp.Height,
			Seed:     resp.Seed,
		}
	}
	result.Response = resp

	path := r.options.OutputFile
	if path == "" {
		path = JoinPath(r.options.OutputDir, imageFileName(img.ID, resp.MimeType))
	}
	if err := r.writer.Write(ctx, path, bytes.NewReader(resp.Data), resp.MimeType); err != nil {
		return nil, fmt.Errorf("画像の保存に失敗しました (%s): %w", path, err)
	}
	result.Path = path

	slog.InfoContext(ctx, "画像を保存しました", "path", path, "bytes", len(resp.Data), "seed", resp.Seed)
	return result, nil
}
