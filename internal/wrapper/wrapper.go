// ABOUTME: Runs the real package-manager command and drives the deal matching pipeline
// ABOUTME: Mirrors the wrapped exit code; matching failures never change it

package wrapper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/mauromedda/cli-saver/internal/log"
	"github.com/mauromedda/cli-saver/internal/manager"
	"github.com/mauromedda/cli-saver/internal/seed"
)

// DealFinder looks up a stored deal by package name.
type DealFinder interface {
	FindByPackage(name string) (*seed.Deal, error)
}

// SeenTracker records which deals were already surfaced.
type SeenTracker interface {
	IsSeen(m manager.Manager, packageName string) (bool, error)
	MarkSeen(m manager.Manager, packageName string) error
}

// Displayer renders a found deal and the optional tip prompt.
type Displayer interface {
	ShowDeal(deal seed.Deal)
	PromptPayment() bool
	ShowThanks()
}

// Payer places the optional one-cent tip payment.
type Payer interface {
	OrderTip(ctx context.Context) error
}

// RemoteStore saves a surfaced deal to remote key-value storage.
type RemoteStore interface {
	SaveDeal(ctx context.Context, deal seed.Deal) error
}

// Wrapper wraps a package-manager invocation. Deals, Seen, and Display are
// required; Payments and Remote are optional best-effort collaborators.
type Wrapper struct {
	Deals    DealFinder
	Seen     SeenTracker
	Display  Displayer
	Payments Payer
	Remote   RemoteStore

	// Out receives dry-run output; defaults to stdout.
	Out io.Writer

	// lookPath and runCommand are swappable for tests.
	lookPath   func(file string) (string, error)
	runCommand func(ctx context.Context, path string, args []string) (int, error)
}

// Run executes the real manager command with the given args, then matches
// the installed packages against the deal store. The returned exit code
// mirrors the wrapped command; matching failures never change it. With
// dryRun set, nothing is executed and nothing is matched.
func (w *Wrapper) Run(ctx context.Context, m manager.Manager, args []string, dryRun bool) (int, error) {
	lookPath := w.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	realCmd, err := lookPath(m.String())
	if err != nil {
		return 1, fmt.Errorf("could not find %s: %w", m.String(), err)
	}

	packages := manager.Extract(m, args)

	if dryRun {
		out := w.Out
		if out == nil {
			out = os.Stdout
		}
		fmt.Fprintf(out, "Would run: %s %s\n", realCmd, strings.Join(args, " "))
		fmt.Fprintf(out, "Packages detected: %v\n", packages)
		return 0, nil
	}

	exitCode, err := w.run(ctx, realCmd, args)
	if err != nil {
		return exitCode, fmt.Errorf("running %s: %w", m.String(), err)
	}

	// Only surface deals after a successful install.
	if exitCode != 0 {
		return exitCode, nil
	}

	w.Match(ctx, m, packages)
	return exitCode, nil
}

// run executes the command with the user's terminal attached and returns its
// exit code.
func (w *Wrapper) run(ctx context.Context, path string, args []string) (int, error) {
	if w.runCommand != nil {
		return w.runCommand(ctx, path, args)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return 1, err
	}
	return 0, nil
}

// Match runs the deal matching pipeline over the extracted packages, in
// order. Each package is checked against the seen tracker, looked up in the
// deal store, and shown at most once. Any failure on a single package is
// logged and the loop continues.
func (w *Wrapper) Match(ctx context.Context, m manager.Manager, packages []string) {
	// Degraded mode: with no deal store there is nothing to match against.
	if w.Deals == nil {
		return
	}

	for _, pkg := range packages {
		isSeen, err := w.Seen.IsSeen(m, pkg)
		if err != nil {
			log.Warn("seen lookup for %s: %v", pkg, err)
			continue
		}
		if isSeen {
			continue
		}

		deal, err := w.Deals.FindByPackage(pkg)
		if err != nil {
			log.Warn("deal lookup for %s: %v", pkg, err)
			continue
		}
		if deal == nil {
			continue
		}

		w.Display.ShowDeal(*deal)

		// Marked regardless of what the optional integrations do next, so
		// the same deal is never shown twice.
		if err := w.Seen.MarkSeen(m, pkg); err != nil {
			log.Warn("marking %s seen: %v", pkg, err)
		}

		w.settle(ctx, *deal)
	}
}

// settle runs the optional post-display side effects: the tip prompt and the
// remote save. Both are best-effort.
func (w *Wrapper) settle(ctx context.Context, deal seed.Deal) {
	if w.Payments != nil && w.Display.PromptPayment() {
		if err := w.Payments.OrderTip(ctx); err != nil {
			log.Debug("tip payment: %v", err)
		}
		w.Display.ShowThanks()
	}

	if w.Remote != nil {
		if err := w.Remote.SaveDeal(ctx, deal); err != nil {
			log.Debug("proxlock save: %v", err)
		}
	}
}
