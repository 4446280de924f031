package command

import "strings"

const defaultHistoryMax = 200

// HistoryKey is the store key console history is persisted under.
const HistoryKey = "console_history"

// HistoryStore persists console history between runs.
type HistoryStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type historyBuffer struct {
	entries []string
	max     int
}

func newHistory(max int) *historyBuffer {
	if max <= 0 {
		max = defaultHistoryMax
	}
	return &historyBuffer{max: max}
}

func newHistoryFromPersisted(raw string) *historyBuffer {
	h := newHistory(defaultHistoryMax)
	if strings.TrimSpace(raw) == "" {
		return h
	}
	entries := strings.Split(raw, "\n")
	if len(entries) > h.max {
		entries = entries[len(entries)-h.max:]
	}
	for _, entry := range entries {
		h.Append(entry)
	}
	return h
}

// Append records entry unless it is blank or repeats the last entry.
func (h *historyBuffer) Append(entry string) bool {
	if h == nil {
		return false
	}
	if strings.TrimSpace(entry) == "" {
		return false
	}
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == entry {
		return false
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
	return true
}

func (h *historyBuffer) Entries() []string {
	if h == nil {
		return nil
	}
	return append([]string(nil), h.entries...)
}

func (h *historyBuffer) encode() string {
	return strings.Join(h.Entries(), "\n")
}
