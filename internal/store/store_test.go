// ABOUTME: Tests for the SQLite deal store
// ABOUTME: Validates lookup normalization, tie-breaking, clear, and list ordering

package store

import (
	"path/filepath"
	"testing"

	"github.com/mauromedda/cli-saver/internal/seed"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "deals.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFindByPackage(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if _, err := s.Insert(seed.Deal{
		ProductName:    "CrewAI",
		PackageName:    "crewai",
		PackageManager: "pip",
		RawText:        "50% off",
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	tests := []struct {
		name  string
		query string
		found bool
	}{
		{"exact", "crewai", true},
		{"case-insensitive", "CrewAI", true},
		{"extras marker stripped", "crewai[tools]", true},
		{"surrounding space", "  crewai ", true},
		{"absent", "flask", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deal, err := s.FindByPackage(tt.query)
			if err != nil {
				t.Fatalf("FindByPackage(%q): %v", tt.query, err)
			}
			if (deal != nil) != tt.found {
				t.Fatalf("FindByPackage(%q) found = %v; want %v", tt.query, deal != nil, tt.found)
			}
			if deal != nil && deal.RawText != "50% off" {
				t.Errorf("RawText = %q; want %q", deal.RawText, "50% off")
			}
		})
	}
}

func TestFindByPackage_NewestWins(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	for _, text := range []string{"old deal", "new deal"} {
		if _, err := s.Insert(seed.Deal{
			ProductName:    "CrewAI",
			PackageName:    "crewai",
			PackageManager: "pip",
			RawText:        text,
		}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	deal, err := s.FindByPackage("crewai")
	if err != nil {
		t.Fatalf("FindByPackage: %v", err)
	}
	if deal == nil || deal.RawText != "new deal" {
		t.Errorf("got %+v; want most recently inserted deal", deal)
	}
}

func TestFindByPackage_UnmappedDealsInvisible(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if _, err := s.Insert(seed.Deal{ProductName: "Kalibr Intelligence", RawText: "consulting discount"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	deal, err := s.FindByPackage("")
	if err != nil {
		t.Fatalf("FindByPackage: %v", err)
	}
	if deal != nil {
		t.Errorf("empty lookup matched unmapped deal %+v; want nil", deal)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if _, err := s.Insert(seed.Deal{ProductName: "OpenAI", PackageName: "openai", PackageManager: "pip", RawText: "credits"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	deal, err := s.FindByPackage("openai")
	if err != nil {
		t.Fatalf("FindByPackage: %v", err)
	}
	if deal != nil {
		t.Errorf("found %+v after Clear; want nil", deal)
	}

	deals, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(deals) != 0 {
		t.Errorf("ListAll returned %d deals after Clear; want 0", len(deals))
	}
}

func TestListAll_OrderedByProductName(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	for _, d := range []seed.Deal{
		{ProductName: "Zeta", RawText: "z deal"},
		{ProductName: "Apify", PackageName: "apify", PackageManager: "pip", RawText: "a deal"},
		{ProductName: "Minimax", PackageName: "minimax", PackageManager: "pip", RawText: "m deal"},
	} {
		if _, err := s.Insert(d); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	deals, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	want := []string{"Apify", "Minimax", "Zeta"}
	if len(deals) != len(want) {
		t.Fatalf("got %d deals; want %d", len(deals), len(want))
	}
	for i, name := range want {
		if deals[i].ProductName != name {
			t.Errorf("deals[%d].ProductName = %q; want %q", i, deals[i].ProductName, name)
		}
	}
}

func TestNormalizePackage(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"Flask[async]", "flask"},
		{" requests ", "requests"},
		{"NumPy", "numpy"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := NormalizePackage(tt.in); got != tt.want {
			t.Errorf("NormalizePackage(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
