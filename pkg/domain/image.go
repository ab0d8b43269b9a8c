package domain

// StylePreset はユーザーのプロンプトに付け足す画風の定義です。
// カタログ上で起動時に一度だけ定義され、実行中に生成・破棄されることはありません。
type StylePreset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"` // ユーザーの文章の後ろに ", " 区切りで連結される断片
	Accent      string `json:"accent"` // 表示用のアクセント。生成ロジックでは使わないのだ
}

// AspectOption は生成画像の幅と高さの組です。
type AspectOption struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// GeneratedImage は生成アクション1回ごとに作られる履歴レコードです。
// Style と Ratio はカタログ内の要素への参照で、コピーではありません。
type GeneratedImage struct {
	ID     int64         `json:"id"` // 作成時刻 (epoch ミリ秒)
	URL    string        `json:"url"`
	Prompt string        `json:"prompt"` // トリム済みのユーザー入力
	Style  *StylePreset  `json:"style"`
	Ratio  *AspectOption `json:"ratio"`
}

// ImageResponse は画像APIから取得した画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
	Seed     int64 // URL に埋め込まれていたシード値。読み取れなければ 0
}
