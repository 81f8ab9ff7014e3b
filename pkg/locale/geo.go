package locale

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// DefaultGeoEndpoint は IP ジオロケーション照会の既定エンドポイントです。
const DefaultGeoEndpoint = "https://ipapi.co/json/"

// Doer は外部 HTTP 呼び出しに要求する最小の契約です。
// httpkit.New が返すクライアントがこれを満たします。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// GeoClient は IP ジオロケーションで地域の言語を推定するクライアントです。
type GeoClient struct {
	client   Doer
	endpoint string
}

// NewGeoClient は GeoClient を初期化します。endpoint が空なら既定値を使います。
func NewGeoClient(client Doer, endpoint string) *GeoClient {
	if endpoint == "" {
		endpoint = DefaultGeoEndpoint
	}
	return &GeoClient{client: client, endpoint: endpoint}
}

// DetectLanguage は接続元の国コードを照会し、対応する言語コードを返します。
// 照会に失敗した場合はエラーを返し、フォールバックの判断は呼び出し側に委ねます。
func (g *GeoClient) DetectLanguage(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("ジオロケーション要求の構築に失敗しました: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ジオロケーション照会に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ジオロケーション照会が失敗しました: status=%d", resp.StatusCode)
	}

	var payload struct {
		CountryCode string `json:"country_code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("ジオロケーション応答の解析に失敗しました: %w", err)
	}

	return FromCountry(payload.CountryCode), nil
}
