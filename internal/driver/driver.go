// Package driver runs the reactive decoration loop. It owns the active
// view's DOM and rescans it in response to host events, debouncing
// bursts with a single trailing timer.
package driver

import (
	"log/slog"
	"time"

	"golang.org/x/net/html"

	"github.com/starford/mannaz/internal/apperr"
	"github.com/starford/mannaz/internal/decor"
	"github.com/starford/mannaz/internal/dom"
	"github.com/starford/mannaz/internal/events"
)

// TrailingDelay is how long after the last triggering event the
// trailing rescan fires. The first event in a burst scans immediately;
// the trailing pass catches DOM settling in behind the burst.
const TrailingDelay = 100 * time.Millisecond

type view struct {
	path string
	doc  *html.Node
}

type openReq struct {
	path string
	html string
	resp chan result
}

type updateReq struct {
	html string
	resp chan result
}

type result struct {
	count int
	err   error
}

type htmlResp struct {
	path string
	html string
	err  error
}

// Driver is the single owner of the active view. All mutable state
// lives inside the run loop goroutine; public methods communicate with
// it through request channels.
type Driver struct {
	scanner *decor.Scanner
	bus     *events.Bus
	logger  *slog.Logger

	openCh   chan openReq
	updateCh chan updateReq
	htmlCh   chan chan htmlResp
	scanCh   chan chan result
	stopCh   chan struct{}
	stopped  chan struct{}
}

// New creates a driver subscribed to the bus and starts its loop.
func New(scanner *decor.Scanner, bus *events.Bus, logger *slog.Logger) *Driver {
	d := &Driver{
		scanner:  scanner,
		bus:      bus,
		logger:   logger,
		openCh:   make(chan openReq),
		updateCh: make(chan updateReq),
		htmlCh:   make(chan chan htmlResp),
		scanCh:   make(chan chan result),
		stopCh:   make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Driver) run() {
	defer close(d.stopped)

	eventCh := d.bus.Subscribe()
	defer d.bus.Unsubscribe(eventCh)

	var active *view

	// Mutation events are honored only after a layout change has
	// attached the observer to the current layout.
	observerAttached := false

	timer := time.NewTimer(TrailingDelay)
	if !timer.Stop() {
		<-timer.C
	}
	timerArmed := false
	defer timer.Stop()

	scanNow := func() int {
		if active == nil {
			return 0
		}
		count := d.scanner.Scan(active.doc, active.path)
		if count > 0 {
			d.logger.Debug("scan decorated links",
				slog.String("path", active.path),
				slog.Int("count", count))
			d.bus.PublishDecoration(active.path, count)
		}
		return count
	}

	arm := func() {
		if timerArmed && !timer.Stop() {
			<-timer.C
		}
		timer.Reset(TrailingDelay)
		timerArmed = true
	}

	// Leading plus trailing debounce. The first event in a burst scans
	// immediately; later events only push the single trailing scan out.
	trigger := func() {
		if !timerArmed {
			scanNow()
		}
		arm()
	}

	// API requests always scan so the caller gets a meaningful count.
	schedule := func() int {
		count := scanNow()
		arm()
		return count
	}

	for {
		select {
		case <-d.stopCh:
			return

		case <-timer.C:
			timerArmed = false
			scanNow()

		case ev, ok := <-eventCh:
			if !ok {
				return
			}
			switch ev.Kind {
			case events.KindLayoutChange:
				observerAttached = true
				trigger()
			case events.KindFileOpen, events.KindActiveLeafChange, events.KindEditorChange:
				trigger()
			case events.KindMutation:
				if observerAttached {
					trigger()
				}
			case events.KindVaultChange:
				// A changed note may have gained or lost person status;
				// undecorated candidates get retried by the sweep.
				trigger()
			}

		case req := <-d.openCh:
			doc, err := dom.ParseDocument(req.html)
			if err != nil {
				req.resp <- result{err: err}
				continue
			}
			active = &view{path: req.path, doc: doc}
			req.resp <- result{count: schedule()}

		case req := <-d.updateCh:
			if active == nil {
				req.resp <- result{err: apperr.ErrNoActiveView}
				continue
			}
			doc, err := dom.ParseDocument(req.html)
			if err != nil {
				req.resp <- result{err: err}
				continue
			}
			active.doc = doc
			req.resp <- result{count: schedule()}

		case resp := <-d.htmlCh:
			if active == nil {
				resp <- htmlResp{err: apperr.ErrNoActiveView}
				continue
			}
			out, err := dom.RenderBodyContents(active.doc)
			resp <- htmlResp{path: active.path, html: out, err: err}

		case resp := <-d.scanCh:
			if active == nil {
				resp <- result{err: apperr.ErrNoActiveView}
				continue
			}
			resp <- result{count: scanNow()}
		}
	}
}

// Close stops the driver loop.
func (d *Driver) Close() {
	select {
	case <-d.stopped:
		return
	default:
	}
	close(d.stopCh)
	<-d.stopped
}

// OpenView makes path's rendered HTML the active view and scans it.
// It returns the number of links decorated by the immediate pass.
func (d *Driver) OpenView(path, htmlStr string) (int, error) {
	resp := make(chan result, 1)
	select {
	case d.openCh <- openReq{path: path, html: htmlStr, resp: resp}:
	case <-d.stopped:
		return 0, apperr.ErrNoActiveView
	}
	r := <-resp
	return r.count, r.err
}

// UpdateViewHTML replaces the active view's DOM and scans it.
func (d *Driver) UpdateViewHTML(htmlStr string) (int, error) {
	resp := make(chan result, 1)
	select {
	case d.updateCh <- updateReq{html: htmlStr, resp: resp}:
	case <-d.stopped:
		return 0, apperr.ErrNoActiveView
	}
	r := <-resp
	return r.count, r.err
}

// HTML returns the active view's path and current (decorated) HTML.
func (d *Driver) HTML() (string, string, error) {
	resp := make(chan htmlResp, 1)
	select {
	case d.htmlCh <- resp:
	case <-d.stopped:
		return "", "", apperr.ErrNoActiveView
	}
	r := <-resp
	return r.path, r.html, r.err
}

// Scan runs one immediate sweep over the active view.
func (d *Driver) Scan() (int, error) {
	resp := make(chan result, 1)
	select {
	case d.scanCh <- resp:
	case <-d.stopped:
		return 0, apperr.ErrNoActiveView
	}
	r := <-resp
	return r.count, r.err
}

// DecorateFragment decorates a standalone HTML fragment without
// touching the active view.
func (d *Driver) DecorateFragment(fragment, sourcePath string) (string, int, error) {
	return d.scanner.DecorateFragment(fragment, sourcePath)
}
