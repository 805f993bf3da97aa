package checkoutform

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"
)

// Window is a browsing context opened before its destination is known.
type Window interface {
	Navigate(url string) error
	Closed() bool
	Close() error
}

// Opener opens links for the user. Prepare reserves a context while the link
// is being created; Open is the fallback when that context is gone.
type Opener interface {
	Prepare() (Window, error)
	Open(url string) error
}

// SystemOpener hands links to the operating system's URL handler.
type SystemOpener struct {
	// Command overrides the platform launcher, mostly for tests.
	Command func(url string) *exec.Cmd
}

func (o SystemOpener) Prepare() (Window, error) {
	return &deferredWindow{open: o.Open}, nil
}

func (o SystemOpener) Open(url string) error {
	cmd := o.command(url)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (o SystemOpener) command(url string) *exec.Cmd {
	if o.Command != nil {
		return o.Command(url)
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.Command("xdg-open", url)
	}
}

// deferredWindow stands in for a blank tab: nothing is shown until Navigate.
type deferredWindow struct {
	mu     sync.Mutex
	open   func(string) error
	closed bool
}

func (w *deferredWindow) Navigate(url string) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return fmt.Errorf("window already closed")
	}
	w.closed = true
	w.mu.Unlock()
	return w.open(url)
}

func (w *deferredWindow) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *deferredWindow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// PrintOpener writes links instead of opening them.
type PrintOpener struct {
	W io.Writer
}

func (o PrintOpener) Prepare() (Window, error) {
	return &deferredWindow{open: o.Open}, nil
}

func (o PrintOpener) Open(url string) error {
	_, err := fmt.Fprintln(o.W, url)
	return err
}
