// Package locale は対応言語・価格・国コードの固定テーブルを提供します。
package locale

import (
	"golang.org/x/text/language"
)

// Language は UI に表示する対応言語1件分の情報です。
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
	RTL  bool   `json:"rtl"`
}

// Supported は対応言語の一覧です。先頭の英語が既定値です。
var Supported = []Language{
	{Code: "en", Name: "English", Flag: "🇬🇧"},
	{Code: "es", Name: "Español", Flag: "🇪🇸"},
	{Code: "fr", Name: "Français", Flag: "🇫🇷"},
	{Code: "de", Name: "Deutsch", Flag: "🇩🇪"},
	{Code: "it", Name: "Italiano", Flag: "🇮🇹"},
	{Code: "pt", Name: "Português", Flag: "🇵🇹"},
	{Code: "nl", Name: "Nederlands", Flag: "🇳🇱"},
	{Code: "pl", Name: "Polski", Flag: "🇵🇱"},
	{Code: "ru", Name: "Русский", Flag: "🇷🇺"},
	{Code: "ja", Name: "日本語", Flag: "🇯🇵"},
	{Code: "zh", Name: "中文", Flag: "🇨🇳"},
	{Code: "ar", Name: "العربية", Flag: "🇸🇦", RTL: true},
	{Code: "hi", Name: "हिन्दी", Flag: "🇮🇳"},
	{Code: "ko", Name: "한국어", Flag: "🇰🇷"},
	{Code: "tr", Name: "Türkçe", Flag: "🇹🇷"},
}

// IsSupported は対応言語コードかどうかを判定します。
func IsSupported(code string) bool {
	for _, l := range Supported {
		if l.Code == code {
			return true
		}
	}
	return false
}

// Normalize は "ja-JP" のような BCP 47 タグを基底言語コードに正規化します。
// 解析できない・未対応のタグは "en" に落とします。
func Normalize(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return "en"
	}
	base, _ := tag.Base()
	if c := base.String(); IsSupported(c) {
		return c
	}
	return "en"
}

// Pricing は言語ごとの購入ボタン用価格表示です。
type Pricing struct {
	Currency string  `json:"currency"`
	Price    float64 `json:"price"`
	Symbol   string  `json:"symbol"`
}

var pricingTable = map[string]Pricing{
	"en": {Currency: "€", Price: 1.50, Symbol: "EUR"},
	"es": {Currency: "€", Price: 1.50, Symbol: "EUR"},
	"fr": {Currency: "€", Price: 1.50, Symbol: "EUR"},
	"de": {Currency: "€", Price: 1.50, Symbol: "EUR"},
	"it": {Currency: "€", Price: 1.50, Symbol: "EUR"},
	"pt": {Currency: "€", Price: 1.50, Symbol: "EUR"},
	"nl": {Currency: "€", Price: 1.50, Symbol: "EUR"},
	"pl": {Currency: "zł", Price: 6.50, Symbol: "PLN"},
	"ru": {Currency: "₽", Price: 150, Symbol: "RUB"},
	"ja": {Currency: "¥", Price: 230, Symbol: "JPY"},
	"zh": {Currency: "¥", Price: 11, Symbol: "CNY"},
	"ar": {Currency: "$", Price: 1.50, Symbol: "USD"},
	"hi": {Currency: "₹", Price: 125, Symbol: "INR"},
	"ko": {Currency: "₩", Price: 2000, Symbol: "KRW"},
	"tr": {Currency: "₺", Price: 50, Symbol: "TRY"},
}

// PricingFor は指定言語の価格表示を返します。未知の言語は英語の価格に落とします。
func PricingFor(code string) Pricing {
	if p, ok := pricingTable[code]; ok {
		return p
	}
	return pricingTable["en"]
}

// countryToLanguage は IP ジオロケーションの国コードから言語コードを引く固定テーブルです。
var countryToLanguage = map[string]string{
	"ES": "es", "MX": "es", "AR": "es", "CO": "es", "CL": "es",
	"FR": "fr", "BE": "fr", "CH": "fr", "CA": "fr",
	"DE": "de", "AT": "de",
	"IT": "it",
	"PT": "pt", "BR": "pt",
	"NL": "nl",
	"PL": "pl",
	"RU": "ru",
	"JP": "ja",
	"CN": "zh", "TW": "zh",
	"SA": "ar", "AE": "ar", "EG": "ar",
	"IN": "hi",
	"KR": "ko",
	"TR": "tr",
}

// FromCountry は ISO 国コードに対応する言語コードを返します。未知の国は "en" です。
func FromCountry(countryCode string) string {
	if lang, ok := countryToLanguage[countryCode]; ok {
		return lang
	}
	return "en"
}
