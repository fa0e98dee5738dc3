package assets

// Notes:
// - The embedded "standard" set is the only built-in set; tests rely on its
//   utilities article carrying six standing clauses.

import (
	"errors"
	"strings"
	"testing"
)

// minimalClauseSet returns a valid clause set document with every article.
func minimalClauseSet(name string) string {
	var b strings.Builder
	b.WriteString("name: " + name + "\nheader:\n  title: \"HOP DONG " + name + "\"\narticles:\n")
	for _, key := range ArticleOrder {
		b.WriteString("  " + key + ":\n    title: \"" + key + "\"\n    clauses:\n      - \"clause of " + key + "\"\n")
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Embedded clause sets
// ---------------------------------------------------------------------------

func TestLoadClauseSet_Embedded(t *testing.T) {
	t.Parallel()

	cs, err := LoadClauseSet(DefaultClauseSetName)
	if err != nil {
		t.Fatalf("LoadClauseSet(%q) error = %v", DefaultClauseSetName, err)
	}
	if cs.Name != DefaultClauseSetName {
		t.Errorf("Name = %q, want %q", cs.Name, DefaultClauseSetName)
	}
	if cs.Header.Title == "" || cs.Header.Nation == "" || cs.Header.Motto == "" {
		t.Errorf("Header incomplete: %+v", cs.Header)
	}
	for _, key := range ArticleOrder {
		if cs.Article(key).Title == "" {
			t.Errorf("article %q has no title", key)
		}
	}
	if got := len(cs.Article(ArticleUtilities).Clauses); got != 6 {
		t.Errorf("utilities clauses = %d, want 6", got)
	}
	if cs.Article(ArticleLessee).CoOccupant == "" {
		t.Error("lessee article has no co-occupant clause")
	}
	if cs.Labels.Summary == "" || cs.Labels.Signatures == "" {
		t.Errorf("Labels incomplete: %+v", cs.Labels)
	}
}

func TestLoadClauseSet_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"nonexistent", "nonexistent-xyz", ErrClauseSetNotFound},
		{"traversal", "../standard", ErrInvalidAssetName},
		{"empty", "", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadClauseSet(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadClauseSet(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	names := Names()
	found := false
	for _, n := range names {
		if n == DefaultClauseSetName {
			found = true
		}
	}
	if !found {
		t.Errorf("Names() = %v, want it to contain %q", names, DefaultClauseSetName)
	}
}

// ---------------------------------------------------------------------------
// ParseClauseSet
// ---------------------------------------------------------------------------

func TestParseClauseSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name: "complete set",
			data: minimalClauseSet("short"),
		},
		{
			name:    "missing article",
			data:    strings.Replace(minimalClauseSet("short"), "  closing:\n", "  closingx:\n", 1),
			wantErr: ErrIncompleteClauseSet,
		},
		{
			name:    "missing title",
			data:    strings.Replace(minimalClauseSet("short"), "  title: \"HOP DONG short\"\n", "  motto: \"x\"\n", 1),
			wantErr: ErrIncompleteClauseSet,
		},
		{
			name:    "unknown field",
			data:    minimalClauseSet("short") + "footer: nope\n",
			wantErr: ErrInvalidClauseSet,
		},
		{
			name:    "not yaml",
			data:    ":\n\t- [",
			wantErr: ErrInvalidClauseSet,
		},
		{
			name:    "empty",
			data:    "",
			wantErr: ErrInvalidClauseSet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cs, err := ParseClauseSet("short", []byte(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseClauseSet() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClauseSet() error = %v", err)
			}
			if cs.Name != "short" {
				t.Errorf("Name = %q, want %q", cs.Name, "short")
			}
		})
	}
}

func TestParseClauseSet_NameDefaultsToFileName(t *testing.T) {
	t.Parallel()

	data := strings.Replace(minimalClauseSet("x"), "name: x\n", "", 1)
	cs, err := ParseClauseSet("fromfile", []byte(data))
	if err != nil {
		t.Fatalf("ParseClauseSet() error = %v", err)
	}
	if cs.Name != "fromfile" {
		t.Errorf("Name = %q, want %q", cs.Name, "fromfile")
	}
}
