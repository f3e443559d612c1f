package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// lockedWriter serialises writes so connectivity notices from the prober
// goroutine do not interleave with REPL output.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

var stdout io.Writer = &lockedWriter{w: os.Stdout}

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(stdout, a...) }
