// cardserver は依頼文からカード仕様とスライドデッキを生成する HTTP サーバーなのだ。
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-gemini-client/gemini"
	"github.com/shouni/go-http-kit/httpkit"
	"golang.org/x/time/rate"

	"github.com/shouni/go-card-kit/internal/config"
	"github.com/shouni/go-card-kit/internal/server"
	"github.com/shouni/go-card-kit/pkg/deck"
	"github.com/shouni/go-card-kit/pkg/domain"
	"github.com/shouni/go-card-kit/pkg/generator"
	"github.com/shouni/go-card-kit/pkg/locale"
	"github.com/shouni/go-card-kit/pkg/prompts"
	"github.com/shouni/go-card-kit/pkg/translate"
)

const defaultGeminiTemperature = float32(0.2)

func main() {
	if err := run(); err != nil {
		slog.Error("サーバーの起動に失敗しました", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	aiClient, err := initializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return err
	}

	promptBuilder, err := prompts.NewTextPromptBuilder()
	if err != nil {
		return fmt.Errorf("プロンプトビルダーの初期化に失敗しました: %w", err)
	}

	// 生成と翻訳で別々のレートリミッターを持たせる。互いの負荷で詰まらないように。
	genLimiter := rate.NewLimiter(rate.Every(cfg.RateInterval), 2)
	trLimiter := rate.NewLimiter(rate.Every(cfg.RateInterval), 2)

	cardGen := generator.NewCardGenerator(aiClient, promptBuilder, cfg.GeminiModel, genLimiter)
	translator := translate.NewTranslator(
		aiClient, promptBuilder,
		cache.New(cache.NoExpiration, 0),
		cfg.GeminiModel, trLimiter,
	)

	httpClient := httpkit.New(cfg.HTTPTimeout)
	geoClient := locale.NewGeoClient(httpClient, locale.DefaultGeoEndpoint)

	handler := server.NewHandler(
		translator,
		cardGen,
		deck.NewExporter(),
		domain.NewHistory(domain.DefaultHistoryLimit),
		geoClient,
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("🚀 Server running", "port", cfg.Port, "model", cfg.GeminiModel)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("サーバーの実行に失敗しました: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("シャットダウンします")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("シャットダウンに失敗しました: %w", err)
	}
	return nil
}

// initializeAIClient は gemini クライアントを初期化します。
func initializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	temperature := defaultGeminiTemperature
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: &temperature,
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}
