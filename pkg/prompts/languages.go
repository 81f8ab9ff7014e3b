package prompts

// languageNames は言語コードからプロンプトで使う言語名を引く固定テーブルです。
var languageNames = map[string]string{
	"en": "English", "es": "Spanish", "fr": "French",
	"de": "German", "it": "Italian", "pt": "Portuguese",
	"nl": "Dutch", "pl": "Polish", "ru": "Russian",
	"ja": "Japanese", "zh": "Chinese (Simplified)",
	"ar": "Arabic", "hi": "Hindi", "ko": "Korean", "tr": "Turkish",
}

// LanguageName は言語コードに対応する言語名を返します。未知のコードは English に落とします。
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "English"
}
