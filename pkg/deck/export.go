// Package deck はカード仕様をスライドデッキのバイナリに変換します。
package deck

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-card-kit/pkg/deck/pptx"
	"github.com/shouni/go-card-kit/pkg/domain"
	"github.com/shouni/go-card-kit/pkg/render"
)

// ExportError は文書の組み立てや書き出しの失敗を表します。
type ExportError struct {
	Err error
}

func (e *ExportError) Error() string {
	return "プレゼンテーションの生成に失敗しました: " + e.Err.Error()
}

func (e *ExportError) Unwrap() error { return e.Err }

const deckAuthor = "AI Card Creator"

// Exporter は render のプリミティブ列を .pptx へ書き写す出力器です。
// プレビューと同じ Render を再生するため、画面と成果物の見た目は一致します。
type Exporter struct{}

// NewExporter は Exporter を初期化します。
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export はカード仕様から .pptx バイナリと推奨ファイル名を生成します。
// 構造不備は MalformedSpecError、書き出し失敗は ExportError を返します。
func (e *Exporter) Export(spec domain.CardSpec) ([]byte, string, error) {
	if err := spec.Validate(); err != nil {
		return nil, "", err
	}

	pres := pptx.New()
	pres.Title = spec.MainMessage
	pres.Author = deckAuthor

	for i := range spec.Slides {
		prims, err := render.Render(spec, i)
		if err != nil {
			return nil, "", &ExportError{Err: err}
		}

		slide := pres.AddSlide()
		slide.SetBackground(spec.Colors.Background)

		for _, prim := range prims {
			writePrimitive(slide, prim)
		}
	}

	data, err := pres.Bytes()
	if err != nil {
		return nil, "", &ExportError{Err: err}
	}

	filename := fmt.Sprintf("%s-card.pptx", spec.CardType)
	slog.Info("Presentation generated", "slides", pres.SlideCount(), "filename", filename)
	return data, filename, nil
}

// writePrimitive は描画プリミティブ1つを pptx のテキスト挿入に1:1で対応付けます。
func writePrimitive(slide *pptx.Slide, prim render.Primitive) {
	switch prim.Kind {
	case render.KindGlyph:
		// 絵文字は座標と大きさのみ。矩形はフォントサイズからの概算で十分なのだ。
		box := prim.FontSize / 36
		slide.AddText(prim.Text, pptx.TextOptions{
			X: prim.X, Y: prim.Y, W: box, H: box,
			FontSize: prim.FontSize,
		})

	case render.KindText:
		opt := pptx.TextOptions{
			X: prim.X, Y: prim.Y, W: prim.W, H: prim.H,
			FontSize:    prim.FontSize,
			Color:       prim.Color,
			Bold:        prim.Bold,
			Italic:      prim.Italic,
			Align:       alignValue(prim.Align),
			LineSpacing: prim.LineSpacing,
		}
		if prim.Middle {
			opt.Anchor = "ctr"
		}

		if len(prim.Runs) > 0 {
			runs := make([]pptx.TextRun, 0, len(prim.Runs))
			for _, r := range prim.Runs {
				runs = append(runs, pptx.TextRun{Text: r.Text, BreakAfter: r.BreakAfter})
			}
			slide.AddRuns(runs, opt)
			return
		}
		slide.AddText(prim.Text, opt)
	}
}

func alignValue(a render.Align) string {
	switch a {
	case render.AlignCenter:
		return "ctr"
	case render.AlignLeft:
		return "l"
	default:
		return ""
	}
}
