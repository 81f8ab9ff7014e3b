// Package server は HTTP 境界を担い、各工程をハンドラとして公開します。
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shouni/go-card-kit/pkg/domain"
	"github.com/shouni/go-card-kit/pkg/generator"
	"github.com/shouni/go-card-kit/pkg/locale"
	"github.com/shouni/go-card-kit/pkg/translate"
)

// UITranslator はロケール別の UI 文言を解決する契約です。
type UITranslator interface {
	Resolve(ctx context.Context, locale string) (domain.UIBundle, error)
}

// CardGenerator は依頼文からカード仕様を生成する契約です。
type CardGenerator interface {
	Generate(ctx context.Context, userInput, locale string) (domain.CardSpec, error)
}

// DeckExporter はカード仕様からスライドデッキを生成する契約です。
type DeckExporter interface {
	Export(spec domain.CardSpec) (data []byte, filename string, err error)
}

// LanguageDetector は接続元から言語を推定する契約です。
type LanguageDetector interface {
	DetectLanguage(ctx context.Context) (string, error)
}

// Handler は HTTP ハンドラ群とその依存をまとめます。
type Handler struct {
	translator UITranslator
	generator  CardGenerator
	exporter   DeckExporter
	history    *domain.History
	detector   LanguageDetector // nil なら国コード指定のみ対応
}

// NewHandler は依存関係を注入して初期化します。
func NewHandler(tr UITranslator, gen CardGenerator, exp DeckExporter, hist *domain.History, det LanguageDetector) *Handler {
	return &Handler{
		translator: tr,
		generator:  gen,
		exporter:   exp,
		history:    hist,
		detector:   det,
	}
}

// RegisterRoutes は全エンドポイントをルーターに登録します。
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.health)
	r.Post("/translate-ui", h.translateUI)
	r.Post("/generate-card", h.generateCard)
	r.Post("/generate-presentation", h.generatePresentation)
	r.Post("/detect-language", h.detectLanguage)
	r.Get("/languages", h.languages)
	r.Get("/pricing", h.pricing)
	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.historyList)
		r.Post("/", h.historyAdd)
		r.Delete("/", h.historyClear)
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "Server is running!",
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) translateUI(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	// "ja-JP" のような地域付きタグは基底言語へ寄せる。キャッシュキーも揃うのだ。
	lang := locale.Normalize(req.Language)
	slog.Info("Translation request", "locale", lang, "requested", req.Language)

	bundle, err := h.translator.Resolve(r.Context(), lang)
	if err != nil {
		slog.Error("Translation failed", "locale", lang, "error", err)
		fallback := domain.DefaultUIBundle()
		var trErr *translate.TranslationError
		if errors.As(err, &trErr) {
			fallback = trErr.Fallback
		}
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"error":    err.Error(),
			"fallback": fallback,
		})
		return
	}

	respondJSON(w, http.StatusOK, bundle)
}

func (h *Handler) generateCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserInput string `json:"userInput"`
		Language  string `json:"language"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	lang := locale.Normalize(req.Language)
	slog.Info("Generating card", "locale", lang, "input", req.UserInput)

	spec, err := h.generator.Generate(r.Context(), req.UserInput, lang)
	if err != nil {
		slog.Error("Card generation failed", "error", err)
		hint := generator.DefaultHint
		var genErr *generator.GenerationError
		if errors.As(err, &genErr) {
			hint = genErr.Hint
		}
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"error": err.Error(),
			"hint":  hint,
		})
		return
	}

	respondJSON(w, http.StatusOK, spec)
}

func (h *Handler) generatePresentation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardSpec domain.CardSpec `json:"cardSpec"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	slog.Info("Generating presentation", "cardType", req.CardSpec.CardType)

	data, filename, err := h.exporter.Export(req.CardSpec)
	if err != nil {
		slog.Error("Presentation generation failed", "error", err)
		var malformed *domain.MalformedSpecError
		status := http.StatusInternalServerError
		if errors.As(err, &malformed) {
			status = http.StatusBadRequest
		}
		respondJSON(w, status, map[string]any{"error": err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"file":     base64.StdEncoding.EncodeToString(data),
		"filename": filename,
	})
}

func (h *Handler) detectLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CountryCode string `json:"countryCode"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if req.CountryCode != "" {
		respondJSON(w, http.StatusOK, map[string]string{"language": locale.FromCountry(req.CountryCode)})
		return
	}

	if h.detector == nil {
		respondJSON(w, http.StatusOK, map[string]string{"language": "en"})
		return
	}

	lang, err := h.detector.DetectLanguage(r.Context())
	if err != nil {
		// 推定失敗は英語で継続する。エラーにはしないのだ。
		slog.Warn("Language detection failed", "error", err)
		lang = "en"
	}
	respondJSON(w, http.StatusOK, map[string]string{"language": lang})
}

func (h *Handler) languages(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, locale.Supported)
}

func (h *Handler) pricing(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("language")
	respondJSON(w, http.StatusOK, locale.PricingFor(code))
}

func (h *Handler) historyList(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.history.List())
}

func (h *Handler) historyAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardSpec domain.CardSpec `json:"cardSpec"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.CardSpec.Validate(); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, h.history.Add(req.CardSpec))
}

func (h *Handler) historyClear(w http.ResponseWriter, r *http.Request) {
	h.history.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "リクエストボディの解析に失敗しました: " + err.Error()})
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}
