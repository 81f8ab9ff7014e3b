package prompts

import (
	_ "embed"
)

const (
	// ModeCard はカード仕様の生成プロンプトです。
	ModeCard = "card"
	// ModeTranslate は UI 文言の翻訳プロンプトです。
	ModeTranslate = "translate"
)

// TemplateData はプロンプトテンプレートに渡すデータ構造です。
// モードによって使われるフィールドは異なります。
type TemplateData struct {
	UserInput           string // ユーザーのカード依頼（ModeCard）
	TargetLanguage      string // "Japanese" 等の言語名
	TargetLanguageUpper string // プロンプト内の強調用（ModeCard）
	BundleJSON          string // 翻訳元の UI 文言 JSON（ModeTranslate）
}

var (
	//go:embed card.md
	CardPrompt string
	//go:embed translate.md
	TranslatePrompt string
)

// allTemplates はモードとテンプレート文字列を紐づけるマップなのだ。
var allTemplates = map[string]string{
	ModeCard:      CardPrompt,
	ModeTranslate: TranslatePrompt,
}
