package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/shouni/go-card-kit/pkg/domain"
	"github.com/shouni/go-card-kit/pkg/generator"
	"github.com/shouni/go-card-kit/pkg/translate"
)

type fakeTranslator struct {
	bundle    domain.UIBundle
	err       error
	gotLocale string
}

func (f *fakeTranslator) Resolve(_ context.Context, locale string) (domain.UIBundle, error) {
	f.gotLocale = locale
	return f.bundle, f.err
}

type fakeGenerator struct {
	spec      domain.CardSpec
	err       error
	gotLocale string
}

func (f *fakeGenerator) Generate(_ context.Context, _, locale string) (domain.CardSpec, error) {
	f.gotLocale = locale
	return f.spec, f.err
}

type fakeExporter struct {
	data     []byte
	filename string
	err      error
}

func (f *fakeExporter) Export(_ domain.CardSpec) ([]byte, string, error) {
	return f.data, f.filename, f.err
}

type fakeDetector struct {
	lang string
	err  error
}

func (f *fakeDetector) DetectLanguage(_ context.Context) (string, error) {
	return f.lang, f.err
}

func testSpec() domain.CardSpec {
	return domain.CardSpec{
		CardType: domain.CardTypeBirthday,
		Mood:     domain.MoodWarm,
		Colors:   domain.Colors{Background: "#FFE5EC", Text: "#4A2040"},
		Slides: []domain.Slide{
			{SlideNumber: 1, Layout: domain.LayoutCover, MainText: "Happy Birthday!"},
		},
	}
}

func newTestServer(t *testing.T, h *Handler) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func defaultHandler() *Handler {
	return NewHandler(
		&fakeTranslator{bundle: domain.DefaultUIBundle()},
		&fakeGenerator{spec: testSpec()},
		&fakeExporter{data: []byte("PK-deck"), filename: "birthday-card.pptx"},
		domain.NewHistory(0),
		&fakeDetector{lang: "ja"},
	)
}

func decodeMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("レスポンスの解析に失敗: %v", err)
	}
	return out
}

func TestHandler_Health(t *testing.T) {
	ts := newTestServer(t, defaultHandler())

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("リクエスト失敗: %v", err)
	}
	body := decodeMap(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("ステータスコード: got %d, want 200", resp.StatusCode)
	}
	if body["status"] != "Server is running!" {
		t.Errorf("status: got %q", body["status"])
	}
	if body["timestamp"] == nil {
		t.Error("timestamp が含まれていません")
	}
}

func TestHandler_TranslateUI(t *testing.T) {
	t.Run("正常系で UI 文言一式を返す", func(t *testing.T) {
		ts := newTestServer(t, defaultHandler())

		resp, err := http.Post(ts.URL+"/translate-ui", "application/json",
			strings.NewReader(`{"language":"ja"}`))
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		body := decodeMap(t, resp)

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("ステータスコード: got %d, want 200", resp.StatusCode)
		}
		if body["title"] != "AI Card Creator" {
			t.Errorf("title: got %q", body["title"])
		}
	})

	t.Run("地域付きタグは基底言語に正規化してから解決する", func(t *testing.T) {
		tr := &fakeTranslator{bundle: domain.DefaultUIBundle()}
		h := defaultHandler()
		h.translator = tr
		ts := newTestServer(t, h)

		resp, err := http.Post(ts.URL+"/translate-ui", "application/json",
			strings.NewReader(`{"language":"ja-JP"}`))
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		resp.Body.Close()

		if tr.gotLocale != "ja" {
			t.Errorf("正規化後のロケール: got %q, want ja", tr.gotLocale)
		}
	})

	t.Run("未対応の言語は en として解決する", func(t *testing.T) {
		tr := &fakeTranslator{bundle: domain.DefaultUIBundle()}
		h := defaultHandler()
		h.translator = tr
		ts := newTestServer(t, h)

		resp, err := http.Post(ts.URL+"/translate-ui", "application/json",
			strings.NewReader(`{"language":"fi"}`))
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		resp.Body.Close()

		if tr.gotLocale != "en" {
			t.Errorf("正規化後のロケール: got %q, want en", tr.gotLocale)
		}
	})

	t.Run("翻訳失敗時は 500 とフォールバック文言を返す", func(t *testing.T) {
		h := defaultHandler()
		h.translator = &fakeTranslator{err: &translate.TranslationError{
			Fallback: domain.DefaultUIBundle(),
			Err:      errors.New("model unavailable"),
		}}
		ts := newTestServer(t, h)

		resp, err := http.Post(ts.URL+"/translate-ui", "application/json",
			strings.NewReader(`{"language":"ja"}`))
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		body := decodeMap(t, resp)

		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("ステータスコード: got %d, want 500", resp.StatusCode)
		}
		fallback, ok := body["fallback"].(map[string]any)
		if !ok {
			t.Fatal("fallback が含まれていません")
		}
		if fallback["title"] != "AI Card Creator" {
			t.Errorf("fallback.title: got %q", fallback["title"])
		}
	})
}

func TestHandler_GenerateCard(t *testing.T) {
	t.Run("正常系でカード仕様を返す", func(t *testing.T) {
		ts := newTestServer(t, defaultHandler())

		resp, err := http.Post(ts.URL+"/generate-card", "application/json",
			strings.NewReader(`{"userInput":"お母さんの誕生日","language":"ja"}`))
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		body := decodeMap(t, resp)

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("ステータスコード: got %d, want 200", resp.StatusCode)
		}
		if body["cardType"] != "birthday" {
			t.Errorf("cardType: got %q", body["cardType"])
		}
	})

	t.Run("地域付きタグは基底言語に正規化してから生成する", func(t *testing.T) {
		gen := &fakeGenerator{spec: testSpec()}
		h := defaultHandler()
		h.generator = gen
		ts := newTestServer(t, h)

		resp, err := http.Post(ts.URL+"/generate-card", "application/json",
			strings.NewReader(`{"userInput":"card","language":"EN-us"}`))
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		resp.Body.Close()

		if gen.gotLocale != "en" {
			t.Errorf("正規化後のロケール: got %q, want en", gen.gotLocale)
		}
	})

	t.Run("生成失敗時は 500 とヒントを返す", func(t *testing.T) {
		h := defaultHandler()
		h.generator = &fakeGenerator{err: &generator.GenerationError{
			Hint: generator.DefaultHint,
			Err:  errors.New("quota exceeded"),
		}}
		ts := newTestServer(t, h)

		resp, err := http.Post(ts.URL+"/generate-card", "application/json",
			strings.NewReader(`{"userInput":"x","language":"en"}`))
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		body := decodeMap(t, resp)

		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("ステータスコード: got %d, want 500", resp.StatusCode)
		}
		if body["hint"] != generator.DefaultHint {
			t.Errorf("hint: got %q", body["hint"])
		}
	})

	t.Run("壊れたボディは 400 を返す", func(t *testing.T) {
		ts := newTestServer(t, defaultHandler())

		resp, err := http.Post(ts.URL+"/generate-card", "application/json",
			strings.NewReader(`{broken`))
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("ステータスコード: got %d, want 400", resp.StatusCode)
		}
	})
}

func TestHandler_GeneratePresentation(t *testing.T) {
	t.Run("正常系で base64 のファイルとファイル名を返す", func(t *testing.T) {
		ts := newTestServer(t, defaultHandler())

		payload, _ := json.Marshal(map[string]any{"cardSpec": testSpec()})
		resp, err := http.Post(ts.URL+"/generate-presentation", "application/json",
			strings.NewReader(string(payload)))
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		body := decodeMap(t, resp)

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("ステータスコード: got %d, want 200", resp.StatusCode)
		}
		if body["filename"] != "birthday-card.pptx" {
			t.Errorf("filename: got %q", body["filename"])
		}
		raw, err := base64.StdEncoding.DecodeString(body["file"].(string))
		if err != nil {
			t.Fatalf("base64 の復号に失敗: %v", err)
		}
		if string(raw) != "PK-deck" {
			t.Errorf("file の中身が一致しません: got %q", raw)
		}
	})

	t.Run("不正な仕様は 400 を返す", func(t *testing.T) {
		h := defaultHandler()
		h.exporter = &fakeExporter{err: &domain.MalformedSpecError{Reason: "slides が空です"}}
		ts := newTestServer(t, h)

		resp, err := http.Post(ts.URL+"/generate-presentation", "application/json",
			strings.NewReader(`{"cardSpec":{}}`))
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("ステータスコード: got %d, want 400", resp.StatusCode)
		}
	})

	t.Run("出力失敗は 500 を返す", func(t *testing.T) {
		h := defaultHandler()
		h.exporter = &fakeExporter{err: errors.New("disk full")}
		ts := newTestServer(t, h)

		payload, _ := json.Marshal(map[string]any{"cardSpec": testSpec()})
		resp, err := http.Post(ts.URL+"/generate-presentation", "application/json",
			strings.NewReader(string(payload)))
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("ステータスコード: got %d, want 500", resp.StatusCode)
		}
	})
}

func TestHandler_DetectLanguage(t *testing.T) {
	t.Run("国コード指定なら即座に対応言語を返す", func(t *testing.T) {
		ts := newTestServer(t, defaultHandler())

		resp, err := http.Post(ts.URL+"/detect-language", "application/json",
			strings.NewReader(`{"countryCode":"DE"}`))
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		body := decodeMap(t, resp)

		if body["language"] != "de" {
			t.Errorf("language: got %q, want de", body["language"])
		}
	})

	t.Run("国コード省略時は接続元から推定する", func(t *testing.T) {
		ts := newTestServer(t, defaultHandler())

		resp, err := http.Post(ts.URL+"/detect-language", "application/json",
			strings.NewReader(`{}`))
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		body := decodeMap(t, resp)

		if body["language"] != "ja" {
			t.Errorf("language: got %q, want ja", body["language"])
		}
	})

	t.Run("推定失敗時は英語にフォールバックする", func(t *testing.T) {
		h := defaultHandler()
		h.detector = &fakeDetector{err: errors.New("geo service down")}
		ts := newTestServer(t, h)

		resp, err := http.Post(ts.URL+"/detect-language", "application/json",
			strings.NewReader(`{}`))
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		body := decodeMap(t, resp)

		if resp.StatusCode != http.StatusOK {
			t.Errorf("ステータスコード: got %d, want 200", resp.StatusCode)
		}
		if body["language"] != "en" {
			t.Errorf("language: got %q, want en", body["language"])
		}
	})
}

func TestHandler_Languages(t *testing.T) {
	ts := newTestServer(t, defaultHandler())

	resp, err := http.Get(ts.URL + "/languages")
	if err != nil {
		t.Fatalf("リクエスト失敗: %v", err)
	}
	defer resp.Body.Close()

	var langs []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&langs); err != nil {
		t.Fatalf("レスポンスの解析に失敗: %v", err)
	}
	if len(langs) != 15 {
		t.Errorf("言語数: got %d, want 15", len(langs))
	}
}

func TestHandler_Pricing(t *testing.T) {
	ts := newTestServer(t, defaultHandler())

	resp, err := http.Get(ts.URL + "/pricing?language=ja")
	if err != nil {
		t.Fatalf("リクエスト失敗: %v", err)
	}
	body := decodeMap(t, resp)

	if body["symbol"] != "JPY" {
		t.Errorf("symbol: got %q, want JPY", body["symbol"])
	}
	if body["currency"] != "¥" {
		t.Errorf("currency: got %q, want ¥", body["currency"])
	}
}

func TestHandler_History(t *testing.T) {
	ts := newTestServer(t, defaultHandler())
	client := ts.Client()

	t.Run("追加した仕様が一覧に現れる", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]any{"cardSpec": testSpec()})
		resp, err := client.Post(ts.URL+"/history", "application/json",
			strings.NewReader(string(payload)))
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		body := decodeMap(t, resp)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("ステータスコード: got %d, want 200", resp.StatusCode)
		}
		if body["id"] == nil {
			t.Error("id が採番されていません")
		}

		listResp, err := client.Get(ts.URL + "/history")
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		defer listResp.Body.Close()
		var entries []map[string]any
		if err := json.NewDecoder(listResp.Body).Decode(&entries); err != nil {
			t.Fatalf("レスポンスの解析に失敗: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("履歴件数: got %d, want 1", len(entries))
		}
	})

	t.Run("不正な仕様の追加は 400 を返す", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/history", "application/json",
			strings.NewReader(`{"cardSpec":{}}`))
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("ステータスコード: got %d, want 400", resp.StatusCode)
		}
	})

	t.Run("全削除後は空の一覧になる", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/history", nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("ステータスコード: got %d, want 204", resp.StatusCode)
		}

		listResp, err := client.Get(ts.URL + "/history")
		if err != nil {
			t.Fatalf("リクエスト失敗: %v", err)
		}
		defer listResp.Body.Close()
		var entries []map[string]any
		if err := json.NewDecoder(listResp.Body).Decode(&entries); err != nil {
			t.Fatalf("レスポンスの解析に失敗: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("履歴件数: got %d, want 0", len(entries))
		}
	})
}
