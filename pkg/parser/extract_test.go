package parser

import "testing"

func TestExtractJSON(t *testing.T) {
	t.Run("jsonコードフェンスを剥がすのだ", func(t *testing.T) {
		raw := "```json\n{\"a\": 1}\n```"
		if got := ExtractJSON(raw); got != `{"a": 1}` {
			t.Errorf("剥がせていないのだ: %q", got)
		}
	})

	t.Run("言語指定なしのフェンスも剥がすのだ", func(t *testing.T) {
		raw := "```\n{\"a\": 1}\n```"
		if got := ExtractJSON(raw); got != `{"a": 1}` {
			t.Errorf("剥がせていないのだ: %q", got)
		}
	})

	t.Run("前置き付きの応答から外側のオブジェクトを拾うのだ", func(t *testing.T) {
		raw := "Here is your card:\n{\"a\": {\"b\": 2}}\nEnjoy!"
		if got := ExtractJSON(raw); got != `{"a": {"b": 2}}` {
			t.Errorf("拾えていないのだ: %q", got)
		}
	})

	t.Run("素のJSONはそのまま返すのだ", func(t *testing.T) {
		raw := `{"a": 1}`
		if got := ExtractJSON(raw); got != raw {
			t.Errorf("変わってしまったのだ: %q", got)
		}
	})
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Errorf("切り詰めが違うのだ: %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Errorf("短い文字列は素通しのはずなのだ: %q", got)
	}
}
