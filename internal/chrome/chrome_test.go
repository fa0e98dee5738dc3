package chrome

// Notes:
// - No test launches a browser; launching is covered by the preview and
//   drawer paths when Chrome is installed.
// - LookPath tests use t.Setenv and cannot run in parallel.

import "testing"

func TestLookPath_BrowserBinOverride(t *testing.T) {
	t.Setenv("ROD_BROWSER_BIN", "/opt/chrome/chrome")

	got, ok := LookPath()
	if !ok || got != "/opt/chrome/chrome" {
		t.Errorf("LookPath() = %q, %v, want /opt/chrome/chrome, true", got, ok)
	}
}

func TestSession_CloseBeforeUse(t *testing.T) {
	t.Parallel()

	for _, s := range []*Session{NewSession(), NewWindowSession()} {
		if err := s.Close(); err != nil {
			t.Errorf("Close() on unused session = %v", err)
		}
		if err := s.Close(); err != nil {
			t.Errorf("second Close() = %v", err)
		}
	}
}
