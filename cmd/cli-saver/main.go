// ABOUTME: CLI entry point for cli-saver: wrap, parse, list, clear, setup, status, shell-init
// ABOUTME: Dispatches subcommands, wires storage and integrations, mirrors wrapped exit codes

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mauromedda/cli-saver/internal/config"
	"github.com/mauromedda/cli-saver/internal/display"
	"github.com/mauromedda/cli-saver/internal/log"
	"github.com/mauromedda/cli-saver/internal/manager"
	"github.com/mauromedda/cli-saver/internal/payments"
	"github.com/mauromedda/cli-saver/internal/proxlock"
	"github.com/mauromedda/cli-saver/internal/seed"
	"github.com/mauromedda/cli-saver/internal/seen"
	"github.com/mauromedda/cli-saver/internal/store"
	"github.com/mauromedda/cli-saver/internal/wrapper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// Optional .env next to the working directory; absence is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	subcmd := os.Args[1]
	rest := os.Args[2:]

	switch subcmd {
	case "wrap":
		code, err := runWrap(rest)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(code)
	case "parse":
		exitOn(runParse(rest))
	case "list":
		exitOn(runList())
	case "clear":
		exitOn(runClear())
	case "setup":
		exitOn(runSetup())
	case "status":
		exitOn(runStatus())
	case "shell-init":
		exitOn(runShellInit(rest))
	case "version", "-version", "--version":
		fmt.Printf("cli-saver %s (%s) built %s\n", version, commit, date)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n\n", subcmd)
		usage()
		os.Exit(2)
	}
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `cli-saver - find discount codes when installing packages

Usage:
  cli-saver wrap [--dry-run] <pip|brew|npm> [args...]   run the real command and check for deals
  cli-saver parse [--clear] <seed-file>                 load a seed document into the deal store
  cli-saver list                                        show all stored deals
  cli-saver clear                                       remove all stored deals
  cli-saver setup                                       configure optional API keys
  cli-saver status                                      show integration status
  cli-saver shell-init [--shell bash|zsh|fish]          print shell aliases for pip/brew/npm
  cli-saver version                                     print version
`)
}

// runWrap executes the wrapped command and the matching pipeline. The
// returned code mirrors the wrapped command's exit code.
func runWrap(args []string) (int, error) {
	fs := flag.NewFlagSet("wrap", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "Don't execute the command, just show what would happen")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return 2, nil
	}
	if *verbose {
		log.SetLevel(log.LevelDebug)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return 2, fmt.Errorf("wrap requires a package manager: pip, brew, or npm")
	}

	m, err := manager.Parse(rest[0])
	if err != nil {
		return 2, err
	}

	w, cleanup := buildWrapper()
	defer cleanup()

	return w.Run(context.Background(), m, rest[1:], *dryRun)
}

// buildWrapper wires the pipeline. Storage failures degrade to a wrapper
// that runs the real command without matching, since a broken deal store
// must never block an install.
func buildWrapper() (*wrapper.Wrapper, func()) {
	dir := config.Dir()
	cleanup := func() {}

	w := &wrapper.Wrapper{
		Seen:    seen.New(config.SeenFile(dir)),
		Display: display.NewTerminal(),
	}

	s, err := store.Open(config.DealsDBFile(dir))
	if err != nil {
		log.Warn("deal store unavailable: %v", err)
	} else {
		w.Deals = s
		cleanup = func() { s.Close() }
	}

	settings, err := config.LoadSettings(dir)
	if err != nil {
		log.Warn("settings unavailable: %v", err)
		settings = &config.Settings{}
	}
	if key := settings.NeverminedKey(); key != "" {
		w.Payments = payments.NewClient(key)
	}
	if key := settings.ProxlockKey(); key != "" {
		w.Remote = proxlock.NewClient(key)
	}

	return w, cleanup
}

// runParse loads a seed document into the deal store.
func runParse(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	clearFirst := fs.Bool("clear", false, "Clear existing deals before parsing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("parse requires exactly one seed file")
	}

	content, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}

	dir := config.Dir()
	catalog, err := seed.LoadCatalog(config.CatalogFile(dir))
	if err != nil {
		return err
	}

	deals := seed.NewParser(catalog).Parse(string(content))

	s, err := store.Open(config.DealsDBFile(dir))
	if err != nil {
		return err
	}
	defer s.Close()

	if *clearFirst {
		if err := s.Clear(); err != nil {
			return err
		}
		fmt.Println("Cleared existing deals")
	}

	for _, deal := range deals {
		if _, err := s.Insert(deal); err != nil {
			return err
		}
		if deal.PackageName != "" {
			fmt.Printf("Added: %s (%s)\n", deal.ProductName, deal.PackageName)
		} else {
			fmt.Printf("Added: %s\n", deal.ProductName)
		}
	}

	fmt.Printf("\nAdded %d deals to database\n", len(deals))
	return nil
}

// runList renders every stored deal.
func runList() error {
	s, err := store.Open(config.DealsDBFile(config.Dir()))
	if err != nil {
		return err
	}
	defer s.Close()

	deals, err := s.ListAll()
	if err != nil {
		return err
	}
	if len(deals) == 0 {
		fmt.Println("No deals in database. Run 'cli-saver parse <seed-file>' first.")
		return nil
	}

	fmt.Printf("%d deals in database\n\n", len(deals))
	r := display.NewTerminal()
	for _, deal := range deals {
		r.ShowDealListing(deal)
	}
	return nil
}

// runClear removes every stored deal.
func runClear() error {
	s, err := store.Open(config.DealsDBFile(config.Dir()))
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Clear(); err != nil {
		return err
	}
	fmt.Println("Cleared all deals from database")
	return nil
}
