// Package parser は AI 応答のテキストから構造化データを取り出すためのユーティリティです。
package parser

import (
	"regexp"
	"strings"
)

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")

// ExtractJSON は AI 応答からコードフェンスや前置きを取り除き、JSON 本体を取り出します。
// モデルは「純粋な JSON のみ」を指示されていても、しばしば ```json で囲んで返すのだ。
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if matches := jsonBlockRegex.FindStringSubmatch(raw); len(matches) > 1 {
		return matches[1]
	}

	// Fallback 1: 最も外側の JSON オブジェクトを探す。
	firstBracket := strings.Index(raw, "{")
	lastBracket := strings.LastIndex(raw, "}")
	if firstBracket != -1 && lastBracket != -1 && lastBracket > firstBracket {
		return raw[firstBracket : lastBracket+1]
	}

	// Fallback 2: 応答全体を JSON とみなす。
	return raw
}

// Truncate はエラーメッセージに添える応答抜粋を maxLen バイトに切り詰めます。
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
