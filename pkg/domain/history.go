package domain

import (
	"sync"
	"time"
)

// DefaultHistoryLimit は履歴として保持する生成結果の最大件数です。
const DefaultHistoryLimit = 10

// HistoryEntry は履歴に残る1回分の生成結果です。
type HistoryEntry struct {
	ID        int64     `json:"id"`
	Spec      CardSpec  `json:"cardSpec"`
	CreatedAt time.Time `json:"createdAt"`
}

// History は直近の生成結果を新しい順に保持するリングです。
// 上限を超えた分は最も古いものから黙って捨てられます。
type History struct {
	mu      sync.Mutex
	limit   int
	nextID  int64
	entries []HistoryEntry
}

// NewHistory は上限 limit 件の履歴を作成します。limit が 0 以下の場合は既定値を使います。
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Add は生成結果を履歴の先頭に追加し、追加されたエントリを返します。
func (h *History) Add(spec CardSpec) HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	entry := HistoryEntry{
		ID:        h.nextID,
		Spec:      spec,
		CreatedAt: time.Now().UTC(),
	}

	h.entries = append([]HistoryEntry{entry}, h.entries...)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
	return entry
}

// List は履歴のコピーを新しい順で返します。
func (h *History) List() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clear は履歴を全件破棄します。
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}
