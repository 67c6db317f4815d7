// ABOUTME: Tests for the wrap pipeline with fake collaborators
// ABOUTME: Validates once-only surfacing, failure isolation, and exit code mirroring

package wrapper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mauromedda/cli-saver/internal/manager"
	"github.com/mauromedda/cli-saver/internal/seed"
	"github.com/mauromedda/cli-saver/internal/seen"
	"github.com/mauromedda/cli-saver/internal/store"
)

type fakeDisplay struct {
	shown     []seed.Deal
	payAnswer bool
	thanked   int
}

func (f *fakeDisplay) ShowDeal(d seed.Deal) { f.shown = append(f.shown, d) }
func (f *fakeDisplay) PromptPayment() bool  { return f.payAnswer }
func (f *fakeDisplay) ShowThanks()          { f.thanked++ }

type fakePayer struct {
	orders int
	err    error
}

func (f *fakePayer) OrderTip(context.Context) error {
	f.orders++
	return f.err
}

type fakeRemote struct {
	saved []seed.Deal
	err   error
}

func (f *fakeRemote) SaveDeal(_ context.Context, d seed.Deal) error {
	f.saved = append(f.saved, d)
	return f.err
}

type failingFinder struct{ err error }

func (f failingFinder) FindByPackage(string) (*seed.Deal, error) { return nil, f.err }

// newTestWrapper builds a wrapper over a real store and tracker in a temp dir.
func newTestWrapper(t *testing.T, disp *fakeDisplay) (*Wrapper, *store.Store) {
	t.Helper()
	dir := t.TempDir()

	s, err := store.Open(filepath.Join(dir, "deals.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return &Wrapper{
		Deals:   s,
		Seen:    seen.New(filepath.Join(dir, "installed.json")),
		Display: disp,
	}, s
}

func crewaiDeal() seed.Deal {
	return seed.Deal{
		ProductName:    "CrewAI",
		PackageName:    "crewai",
		PackageManager: "pip",
		RawText:        "50% off",
	}
}

func TestMatch_SurfacesDealOnce(t *testing.T) {
	t.Parallel()
	disp := &fakeDisplay{}
	w, s := newTestWrapper(t, disp)

	if _, err := s.Insert(crewaiDeal()); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	w.Match(context.Background(), manager.Pip, []string{"crewai"})
	if len(disp.shown) != 1 || disp.shown[0].RawText != "50% off" {
		t.Fatalf("shown = %+v; want the crewai deal once", disp.shown)
	}

	// Second run with the same tracker surfaces nothing.
	w.Match(context.Background(), manager.Pip, []string{"crewai"})
	if len(disp.shown) != 1 {
		t.Errorf("shown %d times after second run; want 1", len(disp.shown))
	}
}

func TestMatch_NoDealNoSideEffect(t *testing.T) {
	t.Parallel()
	disp := &fakeDisplay{}
	w, _ := newTestWrapper(t, disp)

	w.Match(context.Background(), manager.Pip, []string{"flask"})
	if len(disp.shown) != 0 {
		t.Errorf("shown = %+v; want nothing", disp.shown)
	}

	// Nothing was marked seen, so a later seeded deal still surfaces.
	isSeen, err := w.Seen.IsSeen(manager.Pip, "flask")
	if err != nil {
		t.Fatalf("IsSeen: %v", err)
	}
	if isSeen {
		t.Error("flask marked seen without a deal; want unmarked")
	}
}

func TestMatch_StoreFailureContinues(t *testing.T) {
	t.Parallel()
	disp := &fakeDisplay{}
	w, _ := newTestWrapper(t, disp)
	w.Deals = failingFinder{err: errors.New("database locked")}

	// Must not panic or abort; both packages are attempted.
	w.Match(context.Background(), manager.Pip, []string{"crewai", "openai"})
	if len(disp.shown) != 0 {
		t.Errorf("shown = %+v; want nothing on store failure", disp.shown)
	}
}

func TestMatch_OptionalIntegrations(t *testing.T) {
	t.Parallel()
	disp := &fakeDisplay{payAnswer: true}
	w, s := newTestWrapper(t, disp)

	payer := &fakePayer{err: errors.New("payment backend down")}
	remote := &fakeRemote{err: errors.New("storage down")}
	w.Payments = payer
	w.Remote = remote

	if _, err := s.Insert(crewaiDeal()); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	w.Match(context.Background(), manager.Pip, []string{"crewai"})

	if payer.orders != 1 {
		t.Errorf("orders = %d; want 1", payer.orders)
	}
	// Thanks shown even when the payment call fails.
	if disp.thanked != 1 {
		t.Errorf("thanked = %d; want 1", disp.thanked)
	}
	if len(remote.saved) != 1 {
		t.Errorf("saved = %d; want 1", len(remote.saved))
	}

	// Integration failures must not prevent the seen mark.
	isSeen, err := w.Seen.IsSeen(manager.Pip, "crewai")
	if err != nil {
		t.Fatalf("IsSeen: %v", err)
	}
	if !isSeen {
		t.Error("crewai not marked seen after integration failures")
	}
}

func TestMatch_DeclinedPaymentSkipsOrder(t *testing.T) {
	t.Parallel()
	disp := &fakeDisplay{payAnswer: false}
	w, s := newTestWrapper(t, disp)

	payer := &fakePayer{}
	w.Payments = payer

	if _, err := s.Insert(crewaiDeal()); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	w.Match(context.Background(), manager.Pip, []string{"crewai"})
	if payer.orders != 0 {
		t.Errorf("orders = %d; want 0 when declined", payer.orders)
	}
	if disp.thanked != 0 {
		t.Errorf("thanked = %d; want 0 when declined", disp.thanked)
	}
}

func TestRun_ManagerNotFound(t *testing.T) {
	t.Parallel()
	disp := &fakeDisplay{}
	w, _ := newTestWrapper(t, disp)
	w.lookPath = func(string) (string, error) { return "", errors.New("not in PATH") }

	code, err := w.Run(context.Background(), manager.Pip, []string{"install", "flask"}, false)
	if err == nil {
		t.Fatal("Run succeeded; want error for missing manager")
	}
	if code != 1 {
		t.Errorf("exit code = %d; want 1", code)
	}
}

func TestRun_MirrorsExitCode(t *testing.T) {
	t.Parallel()
	disp := &fakeDisplay{}
	w, s := newTestWrapper(t, disp)

	if _, err := s.Insert(crewaiDeal()); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	w.lookPath = func(string) (string, error) { return "/usr/bin/pip", nil }
	w.runCommand = func(context.Context, string, []string) (int, error) { return 2, nil }

	code, err := w.Run(context.Background(), manager.Pip, []string{"install", "crewai"}, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 2 {
		t.Errorf("exit code = %d; want 2", code)
	}
	// Failed installs surface no deals.
	if len(disp.shown) != 0 {
		t.Errorf("shown = %+v; want nothing after failed install", disp.shown)
	}
}

func TestRun_SuccessMatches(t *testing.T) {
	t.Parallel()
	disp := &fakeDisplay{}
	w, s := newTestWrapper(t, disp)

	if _, err := s.Insert(crewaiDeal()); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	w.lookPath = func(string) (string, error) { return "/usr/bin/pip", nil }
	w.runCommand = func(context.Context, string, []string) (int, error) { return 0, nil }

	code, err := w.Run(context.Background(), manager.Pip, []string{"install", "crewai==0.1"}, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d; want 0", code)
	}
	if len(disp.shown) != 1 {
		t.Errorf("shown = %+v; want the crewai deal", disp.shown)
	}
}

func TestRun_DryRun(t *testing.T) {
	t.Parallel()
	disp := &fakeDisplay{}
	w, _ := newTestWrapper(t, disp)

	var buf bytes.Buffer
	w.Out = &buf
	w.lookPath = func(string) (string, error) { return "/usr/bin/npm", nil }
	w.runCommand = func(context.Context, string, []string) (int, error) {
		return 0, fmt.Errorf("must not execute in dry-run")
	}

	code, err := w.Run(context.Background(), manager.NPM, []string{"install", "lodash@4.17.0"}, true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d; want 0", code)
	}

	got := buf.String()
	if !strings.Contains(got, "Would run: /usr/bin/npm install lodash@4.17.0") {
		t.Errorf("dry-run output missing command: %q", got)
	}
	if !strings.Contains(got, "lodash") {
		t.Errorf("dry-run output missing detected package: %q", got)
	}
}
