package components

import (
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// progress shows which components are currently running. It is a no-op
// unless enabled.
type progress struct {
	mu      sync.Mutex
	s       *spinner.Spinner
	running map[string]bool
}

// newProgress returns a progress indicator writing to w. It is only enabled
// when w is a terminal and output is not verbose.
func newProgress(w io.Writer, verbose bool) *progress {
	p := &progress{running: map[string]bool{}}
	f, ok := w.(*os.File)
	if verbose || !ok || !isatty.IsTerminal(f.Fd()) {
		return p
	}
	p.s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	return p
}

func (p *progress) start(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running[name] = true
	p.update()
}

func (p *progress) done(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.running, name)
	p.update()
}

func (p *progress) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.s != nil {
		p.s.Stop()
	}
}

func (p *progress) update() {
	if p.s == nil {
		return
	}
	if len(p.running) == 0 {
		p.s.Stop()
		return
	}
	names := make([]string, 0, len(p.running))
	for n := range p.running {
		names = append(names, n)
	}
	sort.Strings(names)
	p.s.Suffix = " " + strings.Join(names, ", ")
	if !p.s.Active() {
		p.s.Start()
	}
}
