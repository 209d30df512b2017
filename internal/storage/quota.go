package storage

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultQuotaBytes is the byte budget enforced unless configured
// otherwise: 5 MiB, the floor browsers guarantee a single origin, kept
// so a save exported from the web build always fits back.
const DefaultQuotaBytes = 5 * 1024 * 1024

// Usage thresholds, in percent of quota.
const (
	nearLimitPercent = 80.0
	warningPercent   = 95.0
)

// Strategy selects how much a cleanup pass may evict. Each strategy
// protects entries at or above a priority floor.
type Strategy int

const (
	// StrategyMinimal sheds only clearly expendable entries.
	StrategyMinimal Strategy = iota
	// StrategyConservative also sheds backups and loose settings, never
	// achievements or the live save.
	StrategyConservative
	// StrategyAggressive protects nothing.
	StrategyAggressive
)

// Priority floors the non-aggressive strategies refuse to touch.
const (
	minimalProtectedFloor      = 8
	conservativeProtectedFloor = 6
)

func (s Strategy) protects(priority int) bool {
	switch s {
	case StrategyMinimal:
		return priority >= minimalProtectedFloor
	case StrategyConservative:
		return priority >= conservativeProtectedFloor
	default:
		return false
	}
}

// String returns the strategy name for logs.
func (s Strategy) String() string {
	switch s {
	case StrategyMinimal:
		return "minimal"
	case StrategyConservative:
		return "conservative"
	case StrategyAggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// Info is a point-in-time view of storage usage.
type Info struct {
	UsedBytes      int
	QuotaBytes     int
	AvailableBytes int
	UsagePercent   float64
	Entries        int
	NearLimit      bool // usage at or past 80%
	Exceeded       bool // usage at or past the quota
}

// WarningLevel grades a storage warning.
type WarningLevel int

const (
	LevelInfo WarningLevel = iota
	LevelWarning
	LevelCritical
)

// String returns the level name.
func (l WarningLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Suggested remediation actions carried by warnings. The UI maps these
// to its own affordances; the manager never acts on them by itself.
const (
	ActionOptimize = "optimize"
	ActionCleanup  = "cleanup"
	ActionDismiss  = "dismiss"
)

// Warning is advisory: it reports pressure and suggests remediations
// but triggers nothing on its own.
type Warning struct {
	Level   WarningLevel
	Message string
	Actions []string
}

// Manager enforces the byte budget over a KV. Its API never returns
// errors; failures come back as false or zero values with the reason
// logged, so callers can stay on their happy path and the explorer
// keeps running with in-memory state even when persistence misbehaves.
type Manager struct {
	mu    sync.Mutex
	kv    KV
	quota int
	log   *log.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithQuota overrides the byte budget. Non-positive values are ignored.
func WithQuota(bytes int) Option {
	return func(m *Manager) {
		if bytes > 0 {
			m.quota = bytes
		}
	}
}

// WithLogger routes the manager's diagnostics to the given logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.log = logger
		}
	}
}

// NewManager wraps a KV in quota enforcement.
func NewManager(kv KV, opts ...Option) *Manager {
	m := &Manager{
		kv:    kv,
		quota: DefaultQuotaBytes,
		log:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Quota returns the configured byte budget.
func (m *Manager) Quota() int {
	return m.quota
}

// scan rebuilds entry metadata from the raw pairs. Keys that vanish
// between listing and reading are skipped.
func (m *Manager) scan() ([]Entry, int, error) {
	keys, err := m.kv.Keys()
	if err != nil {
		return nil, 0, err
	}
	entries := make([]Entry, 0, len(keys))
	used := 0
	for _, k := range keys {
		v, err := m.kv.Get(k)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		e := NewEntry(k, v)
		entries = append(entries, e)
		used += e.Size
	}
	return entries, used, nil
}

// Info reports current usage. On a scan failure it logs and reports an
// empty store so the UI has something coherent to show.
func (m *Manager) Info() Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, used, err := m.scan()
	if err != nil {
		m.log.Error("storage scan failed", "err", err)
		return Info{QuotaBytes: m.quota, AvailableBytes: m.quota}
	}
	return m.makeInfo(len(entries), used)
}

func (m *Manager) makeInfo(count, used int) Info {
	available := m.quota - used
	if available < 0 {
		available = 0
	}
	percent := 0.0
	if m.quota > 0 {
		percent = float64(used) / float64(m.quota) * 100
	}
	return Info{
		UsedBytes:      used,
		QuotaBytes:     m.quota,
		AvailableBytes: available,
		UsagePercent:   percent,
		Entries:        count,
		NearLimit:      percent >= nearLimitPercent,
		Exceeded:       used >= m.quota,
	}
}

// Entries returns metadata for every stored entry, sorted by key.
func (m *Manager) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, _, err := m.scan()
	if err != nil {
		m.log.Error("storage scan failed", "err", err)
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// Get reads a value. Missing keys and backend failures both come back
// as not-found; failures are logged.
func (m *Manager) Get(key string) (string, bool) {
	v, err := m.kv.Get(key)
	if errors.Is(err, ErrNotFound) {
		return "", false
	}
	if err != nil {
		m.log.Error("storage read failed", "key", key, "err", err)
		return "", false
	}
	return v, true
}

// Delete removes a key, reporting success.
func (m *Manager) Delete(key string) bool {
	if err := m.kv.Delete(key); err != nil {
		m.log.Error("storage delete failed", "key", key, "err", err)
		return false
	}
	return true
}

// Set writes a value inside the budget. If the write would overflow, a
// conservative cleanup sized to the shortfall runs first; if that is
// not enough, or the backend itself rejects the write, one emergency
// cleanup and a single retry follow. Returns whether the value was
// stored.
func (m *Manager) Set(key, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := EntrySize(key, value)
	if size > m.quota {
		m.log.Error("value can never fit in the quota",
			"key", key, "size", size, "quota", m.quota)
		return false
	}

	entries, used, err := m.scan()
	if err != nil {
		// Scan failed but the write itself may still work.
		m.log.Warn("storage scan failed before write", "key", key, "err", err)
	}
	for _, e := range entries {
		if e.Key == key {
			used -= e.Size // replaced, its old cost is released
			break
		}
	}

	if used+size > m.quota {
		shortfall := used + size - m.quota
		used -= m.cleanupLocked(shortfall, StrategyConservative)
	}
	if used+size > m.quota {
		m.emergencyCleanupLocked()
		if _, usedNow, err := m.scan(); err == nil {
			used = usedNow
			if cur, err := m.kv.Get(key); err == nil {
				used -= EntrySize(key, cur)
			}
		}
		if used+size > m.quota {
			m.log.Error("no room for value even after emergency cleanup",
				"key", key, "size", size, "usedBytes", used, "quota", m.quota)
			return false
		}
	}

	if err := m.kv.Set(key, value); err != nil {
		if !errors.Is(err, ErrQuotaExceeded) {
			m.log.Error("storage write failed", "key", key, "err", err)
			return false
		}
		removed := m.emergencyCleanupLocked()
		m.log.Warn("backend rejected write for space, retrying after emergency cleanup",
			"key", key, "removed", removed)
		if err := m.kv.Set(key, value); err != nil {
			m.log.Error("storage write failed after emergency cleanup", "key", key, "err", err)
			return false
		}
	}
	return true
}

// Cleanup frees at least requiredBytes by evicting entries in eviction
// order, honoring the strategy's protected floor. Reports whether
// enough space was freed.
func (m *Manager) Cleanup(requiredBytes int, strategy Strategy) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleanupLocked(requiredBytes, strategy) >= requiredBytes
}

func (m *Manager) cleanupLocked(requiredBytes int, strategy Strategy) int {
	entries, _, err := m.scan()
	if err != nil {
		m.log.Error("cleanup scan failed", "err", err)
		return 0
	}
	sort.Slice(entries, func(i, j int) bool { return evictBefore(entries[i], entries[j]) })

	freed, removed := 0, 0
	for _, e := range entries {
		if freed >= requiredBytes {
			break
		}
		if strategy.protects(e.Priority) {
			continue
		}
		if err := m.kv.Delete(e.Key); err != nil {
			m.log.Warn("cleanup could not delete entry", "key", e.Key, "err", err)
			continue
		}
		freed += e.Size
		removed++
	}
	if removed > 0 {
		m.log.Info("cleanup evicted entries",
			"strategy", strategy.String(), "removed", removed, "freedBytes", freed)
	}
	return freed
}

// EmergencyCleanup drops everything expendable: all cache and temp
// entries, every game-state entry except the most recent, and the
// achievement unlock history. Unlocked achievements themselves live
// inside the state blob and are untouched. Returns how many entries
// were removed.
func (m *Manager) EmergencyCleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emergencyCleanupLocked()
}

func (m *Manager) emergencyCleanupLocked() int {
	entries, _, err := m.scan()
	if err != nil {
		m.log.Error("emergency cleanup scan failed", "err", err)
		return 0
	}

	var newestState Entry
	hasState := false
	for _, e := range entries {
		if e.Category != CategoryGameState {
			continue
		}
		if !hasState || e.Timestamp.After(newestState.Timestamp) ||
			(e.Timestamp.Equal(newestState.Timestamp) && e.Key > newestState.Key) {
			newestState = e
			hasState = true
		}
	}

	removed := 0
	for _, e := range entries {
		drop := false
		switch {
		case e.Category == CategoryCache || e.Category == CategoryTemp:
			drop = true
		case e.Category == CategoryGameState && e.Key != newestState.Key:
			drop = true
		case strings.HasPrefix(e.Key, HistoryPrefix):
			drop = true
		}
		if !drop {
			continue
		}
		if err := m.kv.Delete(e.Key); err != nil {
			m.log.Warn("emergency cleanup could not delete entry", "key", e.Key, "err", err)
			continue
		}
		removed++
	}
	m.log.Warn("emergency cleanup finished", "removed", removed)
	return removed
}

// Warnings grades current usage into an advisory warning, or nil when
// usage is comfortable.
func (m *Manager) Warnings() *Warning {
	info := m.Info()
	switch {
	case info.Exceeded:
		return &Warning{
			Level:   LevelCritical,
			Message: "storage quota exceeded, new progress may not be saved",
			Actions: []string{ActionCleanup, ActionOptimize},
		}
	case info.UsagePercent >= warningPercent:
		return &Warning{
			Level:   LevelWarning,
			Message: fmt.Sprintf("storage almost full (%.0f%% used)", info.UsagePercent),
			Actions: []string{ActionOptimize, ActionCleanup},
		}
	case info.UsagePercent >= nearLimitPercent:
		return &Warning{
			Level:   LevelInfo,
			Message: fmt.Sprintf("storage filling up (%.0f%% used)", info.UsagePercent),
			Actions: []string{ActionOptimize, ActionDismiss},
		}
	default:
		return nil
	}
}
