package main

import (
	"fmt"
	"io"
	"time"
)

// consoleProgress prints a throttled step counter; it implements
// fdtd.Progress and never touches the numeric path.
type consoleProgress struct {
	w     io.Writer
	total int
	done  int
	last  time.Time
}

func newConsoleProgress(w io.Writer, total int) *consoleProgress {
	return &consoleProgress{w: w, total: total}
}

func (p *consoleProgress) Add(n int) {
	p.done += n
	if time.Since(p.last) < 100*time.Millisecond && p.done < p.total {
		return
	}
	p.last = time.Now()
	fmt.Fprintf(p.w, "\r%d/%d steps", p.done, p.total)
}

func (p *consoleProgress) Finish() {
	fmt.Fprintf(p.w, "\r%d/%d steps\n", p.done, p.total)
}
