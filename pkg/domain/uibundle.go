package domain

// UIBundle はアプリケーションシェルに表示する UI 文言一式です。
// フィールド名は翻訳応答の JSON キーと一致させる必要があります。
type UIBundle struct {
	Title          string   `json:"title"`
	Subtitle       string   `json:"subtitle"`
	Placeholder    string   `json:"placeholder"`
	GenerateButton string   `json:"generateButton"`
	LoadingMessage string   `json:"loadingMessage"`
	Examples       []string `json:"examples"`
	StartOver      string   `json:"startOver"`
	EditMessage    string   `json:"editMessage"`
	BuyButton      string   `json:"buyButton"`
}

// DefaultUIBundle は組み込みの英語 UI 文言を返します。
// 翻訳失敗時のフォールバックとしても、翻訳プロンプトの原文としても使われます。
func DefaultUIBundle() UIBundle {
	return UIBundle{
		Title:          "AI Card Creator",
		Subtitle:       "Describe your perfect card and let AI create it",
		Placeholder:    "Example: Create a birthday card for my sister who loves unicorns and the color purple...",
		GenerateButton: "✨ Generate My Card",
		LoadingMessage: "AI is designing your perfect card...",
		Examples: []string{
			"Birthday card for my adventurous dad who loves hiking",
			"Thank you card for my yoga teacher, calm and zen vibes",
			"Mother's Day card for my creative mom who paints",
			"Congratulations card for my friend's new baby",
		},
		StartOver:   "Start Over",
		EditMessage: "Edit Message",
		BuyButton:   "Buy for €1.50",
	}
}
