package generator

const (
	// DefaultBaseURL は Pollinations 画像APIのプロンプトエンドポイントです。
	DefaultBaseURL = "https://image.pollinations.ai/prompt/"
	// MaxSeed はシード値の上限（この値自体は含まない）です。
	MaxSeed = 1_000_000

	promptSeparator = ", "
)
