package storage

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Key layout. Every key the platform writes starts with KeyPrefix and
// names its category in the second segment, so a scan of raw keys can
// always recover what kind of data it is looking at.
const KeyPrefix = "tilefolio:"

const (
	// StateKey holds the canonical serialized explorer state.
	StateKey = KeyPrefix + "state:current"

	// StateBackupPrefix precedes rolling state backups; the final segment
	// is the unix second the backup was taken.
	StateBackupPrefix = KeyPrefix + "state:backup:"

	// SettingsKey mirrors the settings group for cheap reads outside the
	// explorer session.
	SettingsKey = KeyPrefix + "settings:current"

	// HistoryPrefix precedes one record per achievement unlock event.
	HistoryPrefix = KeyPrefix + "achievements:history:"

	// CachePrefix precedes derived data that can always be rebuilt.
	CachePrefix = KeyPrefix + "cache:"

	// TempPrefix precedes session-scoped scratch data.
	TempPrefix = KeyPrefix + "temp:"
)

// Category classifies a stored entry by what it holds.
type Category string

const (
	CategoryGameState    Category = "game-state"
	CategoryAchievements Category = "achievements"
	CategorySettings     Category = "settings"
	CategoryCache        Category = "cache"
	CategoryTemp         Category = "temp"
)

// CategoryForKey derives the category from the key alone. Keys outside
// the platform's naming convention are treated as temp so they are shed
// first under pressure.
func CategoryForKey(key string) Category {
	rest, ok := strings.CutPrefix(key, KeyPrefix)
	if !ok {
		return CategoryTemp
	}
	segment, _, _ := strings.Cut(rest, ":")
	switch segment {
	case "state":
		return CategoryGameState
	case "achievements":
		return CategoryAchievements
	case "settings":
		return CategorySettings
	case "cache":
		return CategoryCache
	case "temp":
		return CategoryTemp
	default:
		return CategoryTemp
	}
}

// Eviction priorities. Higher values survive cleanup longer. The bonus
// marks the live copy of a category (a key containing "current" or
// "active") so it outranks its own backups.
const (
	PriorityTemp         = 1
	PriorityCache        = 2
	PrioritySettings     = 5
	PriorityAchievements = 6
	PriorityGameState    = 7

	activePriorityBonus = 2
	priorityCeiling     = 10
)

func basePriority(c Category) int {
	switch c {
	case CategoryGameState:
		return PriorityGameState
	case CategoryAchievements:
		return PriorityAchievements
	case CategorySettings:
		return PrioritySettings
	case CategoryCache:
		return PriorityCache
	default:
		return PriorityTemp
	}
}

// PriorityFor computes the eviction priority for a key. Deterministic:
// category base plus the active-copy bonus, capped at the ceiling.
func PriorityFor(key string, c Category) int {
	p := basePriority(c)
	if strings.Contains(key, "current") || strings.Contains(key, "active") {
		p += activePriorityBonus
	}
	if p > priorityCeiling {
		p = priorityCeiling
	}
	return p
}

// Entry describes one stored key as seen by a scan. Entries are derived,
// never stored; a scan recomputes them from raw keys and values.
type Entry struct {
	Key       string
	Category  Category
	Priority  int
	Size      int // cost in bytes under the UTF-16 model
	Timestamp time.Time
}

// NewEntry derives the metadata for a key/value pair.
func NewEntry(key, value string) Entry {
	cat := CategoryForKey(key)
	return Entry{
		Key:       key,
		Category:  cat,
		Priority:  PriorityFor(key, cat),
		Size:      EntrySize(key, value),
		Timestamp: entryTimestamp(key, value),
	}
}

// EntrySize is the storage cost of a pair: two bytes per UTF-16 code
// unit of key and value. This matches how browser local storage bills
// its quota, which is the model the byte budget was calibrated against.
func EntrySize(key, value string) int {
	return (utf16Units(key) + utf16Units(value)) * 2
}

func utf16Units(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// entryTimestamp recovers when an entry was written: a numeric
// "timestamp" field (unix milliseconds) in a JSON value wins, then a
// trailing numeric key segment (unix seconds, milliseconds if 12+
// digits). Zero means unknown, which sorts as oldest.
func entryTimestamp(key, value string) time.Time {
	var probe struct {
		Timestamp int64 `json:"timestamp"`
	}
	if err := json.Unmarshal([]byte(value), &probe); err == nil && probe.Timestamp > 0 {
		return time.UnixMilli(probe.Timestamp)
	}

	if i := strings.LastIndex(key, ":"); i >= 0 {
		segment := key[i+1:]
		if n, err := strconv.ParseInt(segment, 10, 64); err == nil && n > 0 {
			if len(segment) >= 12 {
				return time.UnixMilli(n)
			}
			return time.Unix(n, 0)
		}
	}
	return time.Time{}
}

// evictBefore is the cleanup ordering: lower priority first, then older,
// then by key for a stable order.
func evictBefore(a, b Entry) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	return a.Key < b.Key
}
