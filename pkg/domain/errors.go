package domain

// MalformedSpecError は、描画や出力に耐えない構造の CardSpec を表します。
// 上流の生成はスキーマ保証がないため、欠損はこのエラーで明示的に弾きます。
type MalformedSpecError struct {
	Reason string
}

func (e *MalformedSpecError) Error() string {
	return "カード仕様が不正です: " + e.Reason
}
