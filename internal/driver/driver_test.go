package driver

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starford/mannaz/internal/apperr"
	"github.com/starford/mannaz/internal/decor"
	"github.com/starford/mannaz/internal/events"
	"github.com/starford/mannaz/internal/models"
)

// countingHost resolves from fixed maps and counts resolver calls so
// tests can observe how many sweeps ran.
type countingHost struct {
	links    map[string]string
	cache    map[string]map[string]any
	files    map[string]bool
	resolves atomic.Int64
}

func (h *countingHost) ResolveLinkPath(link, sourcePath string) (string, error) {
	h.resolves.Add(1)
	if p, ok := h.links[link]; ok {
		return p, nil
	}
	return "", apperr.ErrNotFound
}

func (h *countingHost) FileCache(path string) (map[string]any, error) {
	if fm, ok := h.cache[path]; ok {
		return fm, nil
	}
	return nil, apperr.ErrNotFound
}

func (h *countingHost) Exists(path string) bool { return h.files[path] }

func (h *countingHost) ResourceURL(path string) string { return "/vault/" + path }

func personSettings() models.AvatarSettings {
	return models.AvatarSettings{AvatarsEnabled: true, PeopleFolderPath: "Sets/People"}
}

func testDriver(t *testing.T, host *countingHost) (*Driver, *events.Bus) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scanner := decor.NewScanner(host, personSettings, logger)
	bus := events.NewBus()
	d := New(scanner, bus, logger)
	t.Cleanup(func() {
		d.Close()
		bus.Close()
	})
	return d, bus
}

func eventually(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestOpenViewDecoratesImmediately(t *testing.T) {
	host := &countingHost{
		links: map[string]string{"Ada": "Sets/People/Ada.md"},
		cache: map[string]map[string]any{
			"Sets/People/Ada.md": {"avatar": "ada.png"},
		},
	}
	d, _ := testDriver(t, host)

	count, err := d.OpenView("Notes/Daily.md",
		`<p><a class="internal-link" data-href="Ada" href="Ada">Ada</a></p>`)
	if err != nil {
		t.Fatalf("OpenView() error = %v", err)
	}
	if count != 1 {
		t.Errorf("OpenView() count = %d, want 1", count)
	}

	path, out, err := d.HTML()
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if path != "Notes/Daily.md" {
		t.Errorf("path = %q, want %q", path, "Notes/Daily.md")
	}
	if !strings.Contains(out, "person-link-processed") {
		t.Errorf("HTML missing sentinel class: %q", out)
	}
	if !strings.Contains(out, "data-link-avatar") {
		t.Errorf("HTML missing avatar attribute: %q", out)
	}
}

func TestNoActiveView(t *testing.T) {
	d, _ := testDriver(t, &countingHost{})

	if _, err := d.UpdateViewHTML("<p></p>"); !errors.Is(err, apperr.ErrNoActiveView) {
		t.Errorf("UpdateViewHTML() error = %v, want ErrNoActiveView", err)
	}
	if _, _, err := d.HTML(); !errors.Is(err, apperr.ErrNoActiveView) {
		t.Errorf("HTML() error = %v, want ErrNoActiveView", err)
	}
	if _, err := d.Scan(); !errors.Is(err, apperr.ErrNoActiveView) {
		t.Errorf("Scan() error = %v, want ErrNoActiveView", err)
	}
}

func TestEventBurstIsDebounced(t *testing.T) {
	// A link that never resolves keeps the candidate undecorated, so
	// every sweep calls the resolver exactly once.
	host := &countingHost{}
	d, bus := testDriver(t, host)

	if _, err := d.OpenView("Notes/Daily.md",
		`<p><a class="internal-link" data-href="Ghost" href="Ghost">Ghost</a></p>`); err != nil {
		t.Fatalf("OpenView() error = %v", err)
	}

	// Let the open's trailing scan settle before the burst.
	time.Sleep(3 * TrailingDelay)
	before := host.resolves.Load()

	for i := 0; i < 5; i++ {
		bus.Publish(events.Event{Kind: events.KindEditorChange})
	}

	if !eventually(t, time.Second, func() bool { return host.resolves.Load() > before }) {
		t.Fatal("burst triggered no sweep")
	}
	time.Sleep(3 * TrailingDelay)

	got := host.resolves.Load() - before
	if got < 1 || got > 3 {
		t.Errorf("sweeps after burst of 5 events = %d, want 1..3", got)
	}
}

func TestMutationGatedOnLayoutChange(t *testing.T) {
	host := &countingHost{}
	d, bus := testDriver(t, host)

	if _, err := d.OpenView("Notes/Daily.md",
		`<p><a class="internal-link" data-href="Ghost" href="Ghost">Ghost</a></p>`); err != nil {
		t.Fatalf("OpenView() error = %v", err)
	}
	time.Sleep(3 * TrailingDelay)
	before := host.resolves.Load()

	// No layout-change yet: mutations are ignored.
	bus.Publish(events.Event{Kind: events.KindMutation})
	time.Sleep(3 * TrailingDelay)
	if got := host.resolves.Load(); got != before {
		t.Errorf("sweeps after ungated mutation = %d, want %d", got, before)
	}

	bus.Publish(events.Event{Kind: events.KindLayoutChange})
	if !eventually(t, time.Second, func() bool { return host.resolves.Load() > before }) {
		t.Error("layout-change triggered no sweep")
	}
	time.Sleep(3 * TrailingDelay)
	before = host.resolves.Load()

	// Observer attached now: mutation triggers a sweep.
	bus.Publish(events.Event{Kind: events.KindMutation})
	if !eventually(t, time.Second, func() bool { return host.resolves.Load() > before }) {
		t.Error("gated mutation triggered no sweep")
	}
}

func TestSecondScanIsStable(t *testing.T) {
	host := &countingHost{
		links: map[string]string{"Ada": "Sets/People/Ada.md"},
		cache: map[string]map[string]any{"Sets/People/Ada.md": {}},
	}
	d, _ := testDriver(t, host)

	if _, err := d.OpenView("Notes/Daily.md",
		`<p><a class="internal-link" data-href="Ada" href="Ada">Ada</a></p>`); err != nil {
		t.Fatalf("OpenView() error = %v", err)
	}
	_, first, err := d.HTML()
	if err != nil {
		t.Fatal(err)
	}

	count, err := d.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if count != 0 {
		t.Errorf("second Scan() count = %d, want 0", count)
	}

	_, second, err := d.HTML()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("HTML changed on second scan:\nfirst:  %q\nsecond: %q", first, second)
	}
}
