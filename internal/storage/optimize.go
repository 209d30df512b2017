package storage

import (
	"encoding/json"
	"errors"
	"time"
)

// staleEntryAge is how long a non-live entry may sit untouched before
// Optimize discards it.
const staleEntryAge = 30 * 24 * time.Hour

// OptimizeReport summarizes what an Optimize pass changed.
type OptimizeReport struct {
	StrippedBytes int // shaved off the state blob by dropping empty fields
	StaleRemoved  int // entries past the retention window
	BytesBefore   int
	BytesAfter    int
}

// Optimize reclaims space without losing meaning: it strips null and
// empty-collection fields from the canonical state blob, drops entries
// whose known age exceeds the retention window, then rewrites every
// surviving pair so the backend can reclaim freed pages. The live state
// and settings keys are never age-swept; entries of unknown age are
// left alone.
func (m *Manager) Optimize() OptimizeReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	var report OptimizeReport
	entries, used, err := m.scan()
	if err != nil {
		m.log.Error("optimize scan failed", "err", err)
		return report
	}
	report.BytesBefore = used

	if raw, err := m.kv.Get(StateKey); err == nil {
		if compacted, changed := compactStateJSON(raw); changed {
			if err := m.kv.Set(StateKey, compacted); err != nil {
				m.log.Warn("optimize could not rewrite state blob", "err", err)
			} else {
				report.StrippedBytes = EntrySize(StateKey, raw) - EntrySize(StateKey, compacted)
			}
		}
	}

	now := time.Now()
	for _, e := range entries {
		if e.Key == StateKey || e.Key == SettingsKey {
			continue
		}
		if e.Timestamp.IsZero() {
			continue
		}
		if now.Sub(e.Timestamp) <= staleEntryAge {
			continue
		}
		if err := m.kv.Delete(e.Key); err != nil {
			m.log.Warn("optimize could not delete stale entry", "key", e.Key, "err", err)
			continue
		}
		report.StaleRemoved++
	}

	if err := m.defragLocked(); err != nil {
		m.log.Error("optimize could not defragment store", "err", err)
	}

	if _, after, err := m.scan(); err == nil {
		report.BytesAfter = after
	}
	m.log.Info("optimize finished",
		"staleRemoved", report.StaleRemoved,
		"strippedBytes", report.StrippedBytes,
		"bytesBefore", report.BytesBefore,
		"bytesAfter", report.BytesAfter)
	return report
}

// defragLocked reads everything out, clears the backend and writes it
// back. For bbolt this is what actually returns dead pages to use.
func (m *Manager) defragLocked() error {
	keys, err := m.kv.Keys()
	if err != nil {
		return err
	}
	pairs := make(map[string]string, len(keys))
	for _, k := range keys {
		v, err := m.kv.Get(k)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		pairs[k] = v
	}
	if err := m.kv.Clear(); err != nil {
		return err
	}
	for k, v := range pairs {
		if err := m.kv.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// compactStateJSON removes null fields and empty collections from a
// JSON document, recursively. Reports whether anything changed. Non-JSON
// input is returned untouched.
func compactStateJSON(raw string) (string, bool) {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return raw, false
	}
	cleaned := stripEmpty(doc)
	if cleaned == nil {
		return raw, false
	}
	out, err := json.Marshal(cleaned)
	if err != nil {
		return raw, false
	}
	if string(out) == raw {
		return raw, false
	}
	return string(out), true
}

// stripEmpty returns the value with nulls, empty objects and empty
// arrays removed, or nil when the value itself should be dropped.
// Scalars, including false, zero and empty strings, are kept.
func stripEmpty(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if cleaned := stripEmpty(child); cleaned == nil {
				delete(t, k)
			} else {
				t[k] = cleaned
			}
		}
		if len(t) == 0 {
			return nil
		}
		return t
	case []any:
		out := make([]any, 0, len(t))
		for _, child := range t {
			if cleaned := stripEmpty(child); cleaned != nil {
				out = append(out, cleaned)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case nil:
		return nil
	default:
		return v
	}
}
