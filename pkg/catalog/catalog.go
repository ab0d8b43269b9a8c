package catalog

import (
	"github.com/shouni/dream-canvas-kit/pkg/domain"
)

// styles は選択可能な画風の閉じた集合です。表示順を保持します。
var styles = [...]domain.StylePreset{
	{
		ID:          "dreamwave",
		Name:        "Dreamwave",
		Description: "Ethereal neon gradients with cinematic glow.",
		Prompt:      "dreamy synthwave illustration, volumetric lighting, trending on artstation, ultra detailed, neon gradients, hyperreal lighting",
		Accent:      "from-purple-500/80 via-fuchsia-500/70 to-sky-500/60",
	},
	{
		ID:          "aether",
		Name:        "Aether Sketch",
		Description: "Hand-drawn lines with watercolor washes.",
		Prompt:      "elegant watercolor illustration, soft ink line art, studio ghibli palette, whimsical atmosphere, intricate details",
		Accent:      "from-indigo-400/80 via-sky-400/70 to-emerald-400/60",
	},
	{
		ID:          "noir",
		Name:        "Noir Render",
		Description: "Moody cinematic frames with high contrast lighting.",
		Prompt:      "cinematic concept art, dramatic chiaroscuro lighting, detailed textures, 35mm photography aesthetic, film grain, ultra realistic",
		Accent:      "from-slate-400/80 via-gray-400/70 to-amber-400/60",
	},
}

// ratios は選択可能なアスペクト比の閉じた集合です。
var ratios = [...]domain.AspectOption{
	{
		ID:          "square",
		Label:       "Square 1:1",
		Description: "Perfect for feeds and cover art.",
		Width:       768,
		Height:      768,
	},
	{
		ID:          "portrait",
		Label:       "Portrait 3:4",
		Description: "Ideal for posters and vertical screens.",
		Width:       768,
		Height:      1024,
	},
	{
		ID:          "landscape",
		Label:       "Landscape 16:9",
		Description: "Cinematic scenes and hero visuals.",
		Width:       1024,
		Height:      576,
	},
}

var quickPrompts = [...]string{
	"Futuristic rainforest city carved into ancient cliffs",
	"Astronaut discovering bioluminescent corals on Europa",
	"Portrait of a cybernetic queen with crystalline crown",
	"Floating library of books orbiting a glowing planet",
	"Minimalist product shot of a smart speaker in soft daylight",
}

// Styles はカタログ内の画風への参照を表示順で返します。
// 返されたポインタの指す値を書き換えてはいけません。
func Styles() []*domain.StylePreset {
	out := make([]*domain.StylePreset, len(styles))
	for i := range styles {
		out[i] = &styles[i]
	}
	return out
}

// Ratios はカタログ内のアスペクト比への参照を表示順で返します。
func Ratios() []*domain.AspectOption {
	out := make([]*domain.AspectOption, len(ratios))
	for i := range ratios {
		out[i] = &ratios[i]
	}
	return out
}

// QuickPrompts はインスピレーション用のサンプルプロンプトを返します。
func QuickPrompts() []string {
	out := make([]string, len(quickPrompts))
	copy(out, quickPrompts[:])
	return out
}

// DefaultStyle は先頭の画風を返します。
func DefaultStyle() *domain.StylePreset { return &styles[0] }

// DefaultRatio は先頭のアスペクト比を返します。
func DefaultRatio() *domain.AspectOption { return &ratios[0] }

// DefaultPrompt は新しいセッションの初期プロンプトです。
func DefaultPrompt() string { return quickPrompts[0] }

// Style は ID から画風を引きます。
func Style(id string) (*domain.StylePreset, bool) {
	for i := range styles {
		if styles[i].ID == id {
			return &styles[i], true
		}
	}
	return nil, false
}

// Ratio は ID からアスペクト比を引きます。
func Ratio(id string) (*domain.AspectOption, bool) {
	for i := range ratios {
		if ratios[i].ID == id {
			return &ratios[i], true
		}
	}
	return nil, false
}

// StyleOrDefault は見つからない ID に対して先頭の画風を返すのだ。
func StyleOrDefault(id string) *domain.StylePreset {
	if s, ok := Style(id); ok {
		return s
	}
	return DefaultStyle()
}

// RatioOrDefault は見つからない ID に対して先頭のアスペクト比を返すのだ。
func RatioOrDefault(id string) *domain.AspectOption {
	if r, ok := Ratio(id); ok {
		return r
	}
	return DefaultRatio()
}
