package assets

import (
	"errors"
	"testing"
)

func TestNewResolver(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses embedded only", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewResolver("")
		if err != nil {
			t.Fatalf("NewResolver(\"\") error = %v", err)
		}
		if resolver.HasCustomLoader() {
			t.Error("expected no custom loader for empty path")
		}
	})

	t.Run("valid custom path", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewResolver() error = %v", err)
		}
		if !resolver.HasCustomLoader() {
			t.Error("expected custom loader for valid path")
		}
	})

	t.Run("invalid custom path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewResolver("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestResolver_LoadClauseSet(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeClauseSet(t, tmpDir, DefaultClauseSetName, minimalClauseSet("override"))
	writeClauseSet(t, tmpDir, "extra", minimalClauseSet("extra"))
	writeClauseSet(t, tmpDir, "broken", "name: broken\n")

	resolver, err := NewResolver(tmpDir)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	t.Run("custom overrides embedded", func(t *testing.T) {
		t.Parallel()

		cs, err := resolver.LoadClauseSet(DefaultClauseSetName)
		if err != nil {
			t.Fatalf("LoadClauseSet() error = %v", err)
		}
		if cs.Name != "override" {
			t.Errorf("Name = %q, want the custom set", cs.Name)
		}
	})

	t.Run("custom only set", func(t *testing.T) {
		t.Parallel()

		if _, err := resolver.LoadClauseSet("extra"); err != nil {
			t.Errorf("LoadClauseSet(extra) error = %v", err)
		}
	})

	t.Run("invalid custom set does not fall back", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.LoadClauseSet("broken")
		if !errors.Is(err, ErrIncompleteClauseSet) {
			t.Errorf("LoadClauseSet(broken) error = %v, want ErrIncompleteClauseSet", err)
		}
	})

	t.Run("missing everywhere", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.LoadClauseSet("nowhere")
		if !errors.Is(err, ErrClauseSetNotFound) {
			t.Errorf("LoadClauseSet(nowhere) error = %v, want ErrClauseSetNotFound", err)
		}
	})
}

func TestResolver_FallsBackToEmbedded(t *testing.T) {
	t.Parallel()

	resolver, err := NewResolver(t.TempDir())
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	cs, err := resolver.LoadClauseSet(DefaultClauseSetName)
	if err != nil {
		t.Fatalf("LoadClauseSet() error = %v", err)
	}
	if len(cs.Article(ArticleUtilities).Clauses) != 6 {
		t.Errorf("expected the embedded standard set")
	}
}
