package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/margin-labs/margo/internal/core/domain"
	"github.com/margin-labs/margo/internal/core/ports/driven"
	"github.com/margin-labs/margo/internal/core/ports/driving"
	"github.com/margin-labs/margo/internal/logger"
)

// Ensure Checker implements the interface.
var _ driving.LiveChecker = (*Checker)(nil)

// Checker coordinates incremental analysis of a document view. Edits
// and viewport moves restart a debounce timer; when the document goes
// quiet, one cycle runs: wait for the view's parser, extract spans
// from changed visible lines, send one analysis request, merge the
// findings, and dispatch effects back to the view.
//
// At most one cycle is pending or in flight. A new update supersedes
// whatever cycle exists: the timer re-arms, the in-flight request is
// cancelled, and a generation counter guarantees that a response that
// raced the cancellation can never touch state.
type Checker struct {
	view     driven.DocumentView
	analysis driven.AnalysisService

	tracker   *DirtyTracker
	extractor Extractor
	merger    Merger

	debounce time.Duration

	mu          sync.Mutex
	state       domain.CheckerState
	timer       *time.Timer
	generation  uint64
	cancel      context.CancelFunc
	everChecked bool
	cycles      uint64
	lastError   string
	wg          sync.WaitGroup
}

// NewChecker creates a checker bound to a view and an analysis
// service. A non-positive debounce in config falls back to the
// default quiet period.
func NewChecker(view driven.DocumentView, analysis driven.AnalysisService, config domain.EditorSettings) *Checker {
	debounce := config.Debounce
	if debounce <= 0 {
		debounce = domain.DefaultSettings().Editor.Debounce
	}

	return &Checker{
		view:     view,
		analysis: analysis,
		tracker:  NewDirtyTracker(),
		debounce: debounce,
		state:    domain.CheckerIdle,
	}
}

// HandleUpdate feeds one view transaction into the checker. Edits are
// recorded in the dirty tracker; any pending timer or in-flight
// request is superseded; the debounce timer restarts. Never blocks.
func (c *Checker) HandleUpdate(update domain.ViewUpdate) {
	if !update.Relevant() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == domain.CheckerDestroyed {
		return
	}

	if update.DocChanged {
		c.tracker.ApplyUpdate(update.Changes)
	}

	// The new event supersedes whatever cycle is pending or running.
	// Cancelling here rather than at timer fire keeps a stale request
	// from clearing marks for lines edited while it was in flight.
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.timer != nil {
		c.timer.Stop()
	}

	c.generation++
	gen := c.generation
	c.timer = time.AfterFunc(c.debounce, func() { c.beginCycle(gen) })
	c.state = domain.CheckerDebouncing

	logger.Debug("checker: update (doc=%t viewport=%t), debouncing generation %d",
		update.DocChanged, update.ViewportChanged, gen)
}

// Status returns a snapshot of the checker's current state.
func (c *Checker) Status() driving.CheckerStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	return driving.CheckerStatus{
		State:           c.state,
		DirtyLines:      c.tracker.Len(),
		CyclesCompleted: c.cycles,
		LastError:       c.lastError,
	}
}

// Destroy shuts the checker down: the pending timer stops, the
// in-flight request is cancelled, and later updates are ignored.
// Blocks until any cycle goroutine has exited. Idempotent.
func (c *Checker) Destroy() {
	c.mu.Lock()
	if c.state == domain.CheckerDestroyed {
		c.mu.Unlock()
		return
	}
	c.state = domain.CheckerDestroyed
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	c.wg.Wait()
	logger.Debug("checker: destroyed")
}

// releaseCycle frees the finished cycle's context. Caller must hold mu.
func (c *Checker) releaseCycle() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// beginCycle runs when the debounce timer fires. Only the fire for
// the latest generation, arriving in the debouncing state, starts a
// cycle; anything else is a superseded timer going off late.
func (c *Checker) beginCycle(gen uint64) {
	c.mu.Lock()
	if c.state != domain.CheckerDebouncing || gen != c.generation {
		c.mu.Unlock()
		logger.Debug("checker: generation %d timer fire ignored", gen)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.state = domain.CheckerAwaitingParser
	first := !c.everChecked
	c.wg.Add(1)
	c.mu.Unlock()

	go c.runCycle(ctx, gen, first)
}

// runCycle performs one analysis cycle on its own goroutine.
func (c *Checker) runCycle(ctx context.Context, gen uint64, first bool) {
	defer c.wg.Done()

	// The viewport end is the position the parser must reach before
	// line content and syntax ranges can be trusted.
	_, viewportTo := c.view.Viewport()
	if err := c.view.WaitUntilParsed(ctx, viewportTo); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("checker: generation %d superseded while awaiting parser", gen)
			return
		}
		c.failCycle(gen, err)
		return
	}

	spans, covered, ok := c.collectSpans(gen, first)
	if !ok {
		logger.Debug("checker: generation %d superseded during extraction", gen)
		return
	}
	if len(spans) == 0 {
		c.finishEmpty(gen)
		return
	}

	c.mu.Lock()
	if c.state == domain.CheckerDestroyed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.state = domain.CheckerInFlight
	c.mu.Unlock()

	logger.Debug("checker: generation %d analysing %d spans from %d lines", gen, len(spans), len(covered))

	findings, err := c.analysis.Analyse(ctx, spans)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("checker: generation %d cancelled in flight", gen)
			return
		}
		c.failCycle(gen, err)
		return
	}

	c.applyResults(gen, spans, covered, findings)
}

// collectSpans snapshots the cycle's candidate lines and extracts
// their spans. The first cycle takes every visible line; later cycles
// take only visible lines marked dirty. Candidate lines that yield no
// spans are analysed vacuously: their marks are cleared on the spot,
// under the generation guard so a concurrent edit is never lost.
func (c *Checker) collectSpans(gen uint64, first bool) (spans []domain.Span, covered []int, ok bool) {
	viewportFrom, viewportTo := c.view.Viewport()

	start, err := c.view.LineAt(viewportFrom)
	if err != nil {
		logger.Debug("checker: generation %d has no viewport start line: %v", gen, err)
		return nil, nil, c.commitVacuous(gen, nil)
	}
	end, err := c.view.LineAt(viewportTo)
	if err != nil {
		logger.Debug("checker: generation %d has no viewport end line: %v", gen, err)
		return nil, nil, c.commitVacuous(gen, nil)
	}

	var vacuous []int
	for n := start.Number; n <= end.Number; n++ {
		if !first && !c.tracker.LineHasChanged(n) {
			continue
		}

		line, err := c.view.Line(n)
		if err != nil {
			// Leave the mark in place; the next cycle retries the line.
			logger.Warn("checker: generation %d line %d unavailable: %v", gen, n, err)
			continue
		}

		lineSpans := c.extractor.Extract(line, c.view.Exclusions(line))
		if len(lineSpans) == 0 {
			vacuous = append(vacuous, n)
			continue
		}

		spans = append(spans, lineSpans...)
		covered = append(covered, n)
	}

	if !c.commitVacuous(gen, vacuous) {
		return nil, nil, false
	}
	return spans, covered, true
}

// commitVacuous clears marks for lines that produced no spans. The
// clear only happens while the cycle is still current; a superseding
// edit may have re-dirtied those very lines.
func (c *Checker) commitVacuous(gen uint64, vacuous []int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == domain.CheckerDestroyed || gen != c.generation {
		return false
	}
	for _, n := range vacuous {
		c.tracker.ClearLine(n)
	}
	return true
}

// finishEmpty completes a cycle that found nothing to analyse.
// No request is made; the checker returns to idle.
func (c *Checker) finishEmpty(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == domain.CheckerDestroyed || gen != c.generation {
		return
	}

	c.everChecked = true
	c.cycles++
	c.lastError = ""
	c.state = domain.CheckerIdle
	c.releaseCycle()
	logger.Debug("checker: generation %d complete, nothing to analyse", gen)
}

// failCycle abandons the current cycle after a transport or view
// failure. Dirty marks survive untouched, so the next update retries
// the same lines.
func (c *Checker) failCycle(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == domain.CheckerDestroyed || gen != c.generation {
		return
	}

	c.lastError = err.Error()
	c.state = domain.CheckerIdle
	c.releaseCycle()
	logger.Warn("checker: generation %d failed: %v", gen, err)
}

// applyResults merges findings onto spans and commits the cycle:
// covered lines are cleared, counters advance, and the effects are
// dispatched to the view. Results for a superseded generation are
// discarded whole.
func (c *Checker) applyResults(gen uint64, spans []domain.Span, covered []int, findings []domain.Finding) {
	attachments := c.merger.Merge(spans, findings)

	effects := make([]domain.Effect, 0, len(attachments)*2)
	for _, a := range attachments {
		effects = append(effects,
			domain.AddFinding{Span: a.Span, Data: a.Finding.Data},
			domain.AddMarker{Span: a.Span, Marker: domain.Marker{
				At:          a.Span.To,
				Suggestions: a.Finding.Data.Suggestions,
			}},
		)
	}

	c.mu.Lock()
	if c.state == domain.CheckerDestroyed || gen != c.generation {
		c.mu.Unlock()
		logger.Debug("checker: generation %d results discarded as stale", gen)
		return
	}

	for _, n := range covered {
		c.tracker.ClearLine(n)
	}
	c.everChecked = true
	c.cycles++
	c.lastError = ""
	c.state = domain.CheckerIdle
	c.releaseCycle()
	c.mu.Unlock()

	// Dispatch outside the lock; the view's event loop may query
	// Status while applying effects.
	c.view.Dispatch(effects...)
	logger.Debug("checker: generation %d applied %d findings as %d effects",
		gen, len(attachments), len(effects))
}
