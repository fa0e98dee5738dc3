// Package chrome manages a lazily launched Chrome instance shared by the
// canvas drawer, the preview viewer and the doctor command.
package chrome

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// ErrBrowserConnect indicates the browser could not be launched or reached.
var ErrBrowserConnect = errors.New("failed to connect to browser")

// Session owns at most one browser. It is safe for concurrent use; the
// browser starts on first use.
type Session struct {
	headless bool
	detached bool

	mu      sync.Mutex
	browser *rod.Browser
}

// NewSession returns a session for a headless browser.
func NewSession() *Session {
	return &Session{headless: true}
}

// NewWindowSession returns a session for a visible browser that outlives the
// current process, for handing a document to the user.
func NewWindowSession() *Session {
	return &Session{headless: false, detached: true}
}

// Browser returns the connected browser, launching it if needed.
func (s *Session) Browser() (*rod.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		return s.browser, nil
	}

	l := launcher.New().Headless(s.headless)

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	} else if path, ok := launcher.LookPath(); ok {
		l = l.Bin(path)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}
	if s.detached {
		l = l.Leakless(false)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	s.browser = b
	return b, nil
}

// Close releases the browser. Detached sessions leave the window open.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return nil
	}
	b := s.browser
	s.browser = nil
	if s.detached {
		return nil
	}
	return b.Close()
}

// LookPath reports the system Chrome binary, if any.
func LookPath() (string, bool) {
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		return bin, true
	}
	return launcher.LookPath()
}
