// Package translate は UI 文言のロケール別解決とそのキャッシュを担います。
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-gemini-client/gemini"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/shouni/go-card-kit/pkg/domain"
	"github.com/shouni/go-card-kit/pkg/parser"
	"github.com/shouni/go-card-kit/pkg/prompts"
)

// TextModel は生成 AI クライアントに要求する最小の契約です。
type TextModel interface {
	GenerateContent(ctx context.Context, prompt string, model string) (*gemini.Response, error)
}

// TranslationError は外部呼び出しまたは応答解析の失敗を表します。
// 呼び出し側が表示を継続できるよう、組み込みの英語文言を必ず同梱します。
type TranslationError struct {
	Fallback domain.UIBundle
	Err      error
}

func (e *TranslationError) Error() string {
	return "UI文言の翻訳に失敗しました: " + e.Err.Error()
}

func (e *TranslationError) Unwrap() error { return e.Err }

// cacheKey はロケールからキャッシュキーを作ります。
func cacheKey(locale string) string {
	return "ui-" + locale
}

// Translator はロケールごとの UIBundle を解決するリゾルバです。
// キャッシュはプロセス存続期間ぶん単調に増え、追い出しは行いません。
// 同一ロケールへの同時初回要求は singleflight で1回の外部呼び出しに束ねます。
type Translator struct {
	aiClient      TextModel
	promptBuilder prompts.PromptBuilder
	store         *cache.Cache
	modelName     string
	limiter       *rate.Limiter
	group         singleflight.Group
}

// NewTranslator は依存関係を注入して初期化します。
// store は呼び出し側が用意します。パッケージレベルの共有キャッシュは持ちません。
func NewTranslator(ai TextModel, pb prompts.PromptBuilder, store *cache.Cache, modelName string, limiter *rate.Limiter) *Translator {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Translator{
		aiClient:      ai,
		promptBuilder: pb,
		store:         store,
		modelName:     modelName,
		limiter:       limiter,
	}
}

// Resolve はロケールに対応する UIBundle を返します。
// "en" は外部呼び出しなしで組み込み文言を返します。
// 失敗時は TranslationError を返し、呼び出し側は Fallback で表示を継続できます。
func (t *Translator) Resolve(ctx context.Context, locale string) (domain.UIBundle, error) {
	fallback := domain.DefaultUIBundle()
	key := cacheKey(locale)

	if locale == "en" {
		t.store.Set(key, fallback, cache.NoExpiration)
		return fallback, nil
	}

	if cached, found := t.store.Get(key); found {
		slog.Info("Translator: Returning cached translation", "locale", locale)
		return cached.(domain.UIBundle), nil
	}

	result, err, _ := t.group.Do(key, func() (interface{}, error) {
		return t.translate(ctx, locale)
	})
	if err != nil {
		return domain.UIBundle{}, &TranslationError{Fallback: fallback, Err: err}
	}

	bundle := result.(domain.UIBundle)
	t.store.Set(key, bundle, cache.NoExpiration)
	return bundle, nil
}

// translate は組み込み文言を原文として外部翻訳を1回実行します。
func (t *Translator) translate(ctx context.Context, locale string) (domain.UIBundle, error) {
	source := domain.DefaultUIBundle()
	sourceJSON, err := json.MarshalIndent(source, "", "  ")
	if err != nil {
		return domain.UIBundle{}, fmt.Errorf("組み込み文言のエンコードに失敗しました: %w", err)
	}

	prompt, err := t.promptBuilder.Build(prompts.ModeTranslate, prompts.TemplateData{
		TargetLanguage: prompts.LanguageName(locale),
		BundleJSON:     string(sourceJSON),
	})
	if err != nil {
		return domain.UIBundle{}, fmt.Errorf("翻訳プロンプトの構築に失敗しました: %w", err)
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return domain.UIBundle{}, err
	}

	slog.Info("Translator: Calling Gemini API", "model", t.modelName, "locale", locale)
	resp, err := t.aiClient.GenerateContent(ctx, prompt, t.modelName)
	if err != nil {
		return domain.UIBundle{}, fmt.Errorf("翻訳呼び出しに失敗しました: %w", err)
	}

	rawJSON := parser.ExtractJSON(resp.Text)
	var bundle domain.UIBundle
	if err := json.Unmarshal([]byte(rawJSON), &bundle); err != nil {
		return domain.UIBundle{}, fmt.Errorf("翻訳応答の解析に失敗しました (応答抜粋: %q): %w", parser.Truncate(resp.Text, 200), err)
	}

	if bundle.Title == "" {
		return domain.UIBundle{}, fmt.Errorf("翻訳応答に必須フィールドがありません")
	}

	return bundle, nil
}
