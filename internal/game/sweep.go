package game

import (
	"time"

	"github.com/tilefolio/tilefolio/internal/storage"
)

// cadence gates work that runs on a fixed interval inside the frame
// loop. No goroutines: the loop asks, the cadence answers.
type cadence struct {
	every time.Duration
	last  time.Time
}

// due reports whether the interval has elapsed, arming itself when it
// has. A zero interval is never due.
func (c *cadence) due(now time.Time) bool {
	if c.every <= 0 {
		return false
	}
	if !c.last.IsZero() && now.Sub(c.last) < c.every {
		return false
	}
	c.last = now
	return true
}

// Tick runs the periodic sweeps and expires old toasts. The TUI calls
// it on every frame; the cadences decide what actually runs. Time-based
// achievements unlock here even when the visitor is idle.
func (e *Explore) Tick(now time.Time) {
	if e.achievementGap.due(now) {
		e.runUnlocks()
	}
	if e.storageGap.due(now) {
		e.refreshStorage()
	}
	e.pruneToasts(now)
}

// runUnlocks evaluates the catalog and banks whatever is newly earned.
func (e *Explore) runUnlocks() {
	snap := e.store.Snapshot()
	for _, def := range e.engine.Evaluate(snap, e.tracker, e.store.PlayTime()) {
		a := def.Achievement()
		if e.store.UnlockAchievement(a) {
			e.unlocks++
			e.toasts = append(e.toasts, Toast{Achievement: a, At: e.now()})
		}
	}
}

// refreshStorage re-reads usage and pressure, logging level changes.
// A dismissed warning stays hidden until the pressure level changes.
func (e *Explore) refreshStorage() {
	e.storageInfo = e.quota.Info()
	w := e.quota.Warnings()
	switch {
	case w == nil:
		e.dismissed = false
	case e.dismissed && w.Level == e.dismissedLevel:
		w = nil
	default:
		e.dismissed = false
	}
	if w != nil && (e.warning == nil || e.warning.Level != w.Level) {
		e.log.Warn("storage pressure", "level", w.Level.String(), "message", w.Message)
	}
	e.warning = w
}

// optimizeStorage compacts the store in place and re-reads pressure.
func (e *Explore) optimizeStorage() {
	rep := e.quota.Optimize()
	e.log.Info("storage optimized",
		"freedBytes", rep.BytesBefore-rep.BytesAfter, "staleRemoved", rep.StaleRemoved)
	e.refreshStorage()
}

// cleanupStorage evicts enough expendable entries to get usage back
// under the pressure threshold.
func (e *Explore) cleanupStorage() {
	target := e.storageInfo.UsedBytes - e.quota.Quota()*3/4
	if target <= 0 {
		target = 0
	}
	e.quota.Cleanup(target, storage.StrategyConservative)
	e.refreshStorage()
}

// dismissWarning hides the banner until the pressure level changes.
func (e *Explore) dismissWarning() {
	if e.warning == nil {
		return
	}
	e.dismissed = true
	e.dismissedLevel = e.warning.Level
	e.warning = nil
}

func (e *Explore) pruneToasts(now time.Time) {
	keep := e.toasts[:0]
	for _, t := range e.toasts {
		if now.Sub(t.At) < toastTTL {
			keep = append(keep, t)
		}
	}
	e.toasts = keep
}
