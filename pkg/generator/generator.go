// Package generator は自由文の依頼から CardSpec を生成する工程を担います。
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-gemini-client/gemini"
	"golang.org/x/time/rate"

	"github.com/shouni/go-card-kit/pkg/domain"
	"github.com/shouni/go-card-kit/pkg/parser"
	"github.com/shouni/go-card-kit/pkg/prompts"
)

// TextModel は生成 AI クライアントに要求する最小の契約です。
// gemini.GenerativeModel がこれを満たします。
type TextModel interface {
	GenerateContent(ctx context.Context, prompt string, model string) (*gemini.Response, error)
}

// GenerationError は AI 呼び出しまたは応答解析の失敗を表します。
// Hint には利用者向けの設定見直しの手がかりを入れます。
type GenerationError struct {
	Hint string
	Err  error
}

func (e *GenerationError) Error() string {
	return "カードの生成に失敗しました: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// DefaultHint は生成失敗時に返す定型の手がかりです。
const DefaultHint = "環境変数 GEMINI_API_KEY が正しく設定されているか確認してください"

// CardGenerator はプロンプト構築・AI 呼び出し・応答検証を束ねる生成器です。
type CardGenerator struct {
	aiClient      TextModel
	promptBuilder prompts.PromptBuilder
	modelName     string
	limiter       *rate.Limiter
}

// NewCardGenerator は依存関係を注入して初期化します。
// limiter が nil の場合はレート制限なしで動作します。
func NewCardGenerator(ai TextModel, pb prompts.PromptBuilder, modelName string, limiter *rate.Limiter) *CardGenerator {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &CardGenerator{
		aiClient:      ai,
		promptBuilder: pb,
		modelName:     modelName,
		limiter:       limiter,
	}
}

// BuildPrompt は依頼文と言語コードから生成プロンプトを構築する純粋な工程です。
// 未知の言語コードは English に落ちます。
func (g *CardGenerator) BuildPrompt(userInput, locale string) (string, error) {
	name := prompts.LanguageName(locale)
	return g.promptBuilder.Build(prompts.ModeCard, prompts.TemplateData{
		UserInput:           userInput,
		TargetLanguage:      name,
		TargetLanguageUpper: strings.ToUpper(name),
	})
}

// Generate は依頼文から検証済みの CardSpec を生成します。
// 失敗はすべて GenerationError に包んで返します（自動リトライはしません）。
func (g *CardGenerator) Generate(ctx context.Context, userInput, locale string) (domain.CardSpec, error) {
	prompt, err := g.BuildPrompt(userInput, locale)
	if err != nil {
		return domain.CardSpec{}, &GenerationError{Hint: DefaultHint, Err: err}
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return domain.CardSpec{}, &GenerationError{Hint: DefaultHint, Err: err}
	}

	slog.Info("CardGenerator: Calling Gemini API", "model", g.modelName, "locale", locale)
	resp, err := g.aiClient.GenerateContent(ctx, prompt, g.modelName)
	if err != nil {
		return domain.CardSpec{}, &GenerationError{Hint: DefaultHint, Err: err}
	}

	spec, err := g.parseResponse(resp.Text)
	if err != nil {
		return domain.CardSpec{}, &GenerationError{Hint: DefaultHint, Err: err}
	}

	slog.Info("CardGenerator: Card generated", "cardType", spec.CardType, "slides", len(spec.Slides))
	return spec, nil
}

// parseResponse は AI 応答から JSON を取り出し、CardSpec として検証します。
func (g *CardGenerator) parseResponse(raw string) (domain.CardSpec, error) {
	rawJSON := parser.ExtractJSON(raw)

	var spec domain.CardSpec
	if err := json.Unmarshal([]byte(rawJSON), &spec); err != nil {
		return domain.CardSpec{}, fmt.Errorf("AIからの応答に含まれるJSONの解析に失敗しました (応答抜粋: %q): %w", parser.Truncate(raw, 200), err)
	}

	if err := spec.ValidateStrict(); err != nil {
		return domain.CardSpec{}, err
	}
	return spec, nil
}
