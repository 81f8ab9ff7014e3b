// Package render はカード仕様を位置決め済みの描画プリミティブへ変換します。
// 画面プレビューとファイル出力が同じプリミティブ列を共有することで、
// 見た目の一致を保証します。
package render

import (
	"fmt"
	"strings"

	"github.com/shouni/go-card-kit/pkg/domain"
)

// 仮想キャンバスは実表示サイズによらず 10×5.625 単位（16:9）で固定です。
// 消費側は x を displayWidth/CanvasWidth、y を displayHeight/CanvasHeight で
// それぞれ独立にスケールする必要があります。
const (
	CanvasWidth  = 10.0
	CanvasHeight = 5.625
)

// DefaultEmojiSize は size 未指定の絵文字に適用するポイント数です。
const DefaultEmojiSize = 60.0

// DefaultSparkle は wishes の行頭絵文字が足りないときに使う既定のグリフです。
const DefaultSparkle = "✨"

// Kind はプリミティブの種別です。
type Kind string

const (
	// KindText は矩形に流し込まれるテキストボックスです。
	KindText Kind = "text"
	// KindGlyph は座標指定で置かれる単独の絵文字です。
	KindGlyph Kind = "glyph"
)

// Align は水平方向の文字揃えです。
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// TextRun は複数行テキストブロック内の1行分です。
type TextRun struct {
	Text       string
	BreakAfter bool // この行の直後に明示的な改行を入れる
}

// Primitive は位置・サイズ・装飾を持つ描画の最小単位です。
// KindText では Text か Runs のどちらか一方が使われます。
type Primitive struct {
	Kind Kind

	Text string
	Runs []TextRun

	// キャンバス単位の矩形。KindGlyph は X/Y のみ意味を持ちます。
	X, Y, W, H float64

	FontSize    float64 // ポイント
	Color       string  // '#' なしの16進。グリフでは空
	Align       Align
	Middle      bool // 垂直中央揃え
	Bold        bool
	Italic      bool
	LineSpacing float64 // ポイント。0 は指定なし
}

// ScaleFactors は仮想キャンバス座標を実表示座標へ変換する係数を返します。
// 2軸は単一の倍率では揃えず、それぞれ独立に計算します。
func ScaleFactors(displayWidth, displayHeight float64) (sx, sy float64) {
	return displayWidth / CanvasWidth, displayHeight / CanvasHeight
}

// Render は指定スライドの描画プリミティブ列を返します。
// 純粋関数であり、同じ入力に対して常に同じ列を返します。
// 構造不備は MalformedSpecError、インデックス不正は通常のエラーです。
func Render(spec domain.CardSpec, slideIndex int) ([]Primitive, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if slideIndex < 0 || slideIndex >= len(spec.Slides) {
		return nil, fmt.Errorf("スライド番号が範囲外です: %d (全%d枚)", slideIndex, len(spec.Slides))
	}

	slide := spec.Slides[slideIndex]
	textColor := stripHash(spec.Colors.Text)

	var prims []Primitive

	// 絵文字レイヤーは本文より先に置く。重なり順は入力順のまま。
	for _, pos := range slide.EmojiPositions {
		size := pos.Size
		if size == 0 {
			size = DefaultEmojiSize
		}
		prims = append(prims, Primitive{
			Kind:     KindGlyph,
			Text:     pos.Emoji,
			X:        pos.X,
			Y:        pos.Y,
			FontSize: size,
		})
	}

	// 未知の layout はテキストを一切生成しない。上流の生成はスキーマ保証が
	// ないため、ここで落とさず絵文字レイヤーだけを通すのが契約なのだ。
	switch slide.Layout {
	case domain.LayoutCover:
		prims = append(prims, Primitive{
			Kind: KindText, Text: slide.MainText,
			X: 0, Y: 2, W: 10, H: 1.5,
			FontSize: 54, Bold: true, Color: textColor,
			Align: AlignCenter, Middle: true,
		})
		if slide.SubText != "" {
			prims = append(prims, Primitive{
				Kind: KindText, Text: slide.SubText,
				X: 0, Y: 3.7, W: 10, H: 0.8,
				FontSize: 28, Italic: true, Color: textColor,
				Align: AlignCenter, Middle: true,
			})
		}

	case domain.LayoutMessage:
		prims = append(prims, Primitive{
			Kind: KindText, Text: slide.MainText,
			X: 0.5, Y: 0.8, W: 9, H: 0.8,
			FontSize: 40, Bold: true, Color: textColor,
			Align: AlignCenter,
		})
		if slide.BodyText != "" {
			prims = append(prims, Primitive{
				Kind: KindText, Text: slide.BodyText,
				X: 1, Y: 2.2, W: 8, H: 2.5,
				FontSize: 24, Color: textColor,
				Align: AlignCenter, Middle: true,
			})
		}

	case domain.LayoutWishes:
		prims = append(prims, Primitive{
			Kind: KindText, Text: slide.MainText,
			X: 0.5, Y: 0.8, W: 9, H: 0.7,
			FontSize: 36, Bold: true, Color: textColor,
			Align: AlignCenter,
		})
		if len(slide.Wishes) > 0 {
			runs := make([]TextRun, 0, len(slide.Wishes))
			for i, wish := range slide.Wishes {
				glyph := DefaultSparkle
				if i < len(slide.Emojis) && slide.Emojis[i] != "" {
					glyph = slide.Emojis[i]
				}
				runs = append(runs, TextRun{
					Text:       glyph + " " + wish,
					BreakAfter: i < len(slide.Wishes)-1,
				})
			}
			prims = append(prims, Primitive{
				Kind: KindText, Runs: runs,
				X: 1.5, Y: 2, W: 7, H: 3,
				FontSize: 22, Color: textColor,
				Align: AlignLeft, Middle: true, LineSpacing: 36,
			})
		}

	case domain.LayoutCelebration:
		prims = append(prims, Primitive{
			Kind: KindText, Text: slide.MainText,
			X: 0.5, Y: 2.5, W: 9, H: 1,
			FontSize: 48, Bold: true, Color: textColor,
			Align: AlignCenter, Middle: true,
		})
		if slide.SubText != "" {
			prims = append(prims, Primitive{
				Kind: KindText, Text: slide.SubText,
				X: 0.5, Y: 3.7, W: 9, H: 0.6,
				FontSize: 24, Color: textColor,
				Align: AlignCenter,
			})
		}

	case domain.LayoutClosing:
		prims = append(prims, Primitive{
			Kind: KindText, Text: slide.MainText,
			X: 0.5, Y: 2.8, W: 9, H: 0.8,
			FontSize: 36, Bold: true, Italic: true, Color: textColor,
			Align: AlignCenter,
		})
		if slide.SubText != "" {
			prims = append(prims, Primitive{
				Kind: KindText, Text: slide.SubText,
				X: 0.5, Y: 3.8, W: 9, H: 0.5,
				FontSize: 22, Color: textColor,
				Align: AlignCenter,
			})
		}
	}

	return prims, nil
}

func stripHash(hex string) string {
	return strings.TrimPrefix(hex, "#")
}
