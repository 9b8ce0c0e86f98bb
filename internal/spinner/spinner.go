// Package spinner shows a terminal progress indicator while the harness is
// building and running a solution.
package spinner

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const interval = 80 * time.Millisecond

// Spinner animates a message with the elapsed time on one terminal line.
// A Spinner can be started again after it was stopped.
type Spinner struct {
	w io.Writer

	mu      sync.Mutex
	message string
	width   int
	done    chan struct{}
	cleared chan struct{}
}

// New returns a stopped spinner writing to w.
func New(w io.Writer) *Spinner {
	return &Spinner{w: w}
}

// Start shows message. Starting a running spinner only replaces the message.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.message = message
	if s.done != nil {
		return
	}
	s.done = make(chan struct{})
	s.cleared = make(chan struct{})
	go s.spin(s.done, s.cleared, time.Now())
}

// Stop clears the line. It is a no-op on a stopped spinner.
func (s *Spinner) Stop() {
	s.mu.Lock()
	done, cleared := s.done, s.cleared
	s.done, s.cleared = nil, nil
	s.mu.Unlock()

	if done == nil {
		return
	}
	close(done)
	<-cleared
}

func (s *Spinner) spin(done, cleared chan struct{}, started time.Time) {
	defer close(cleared)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-done:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width)) //nolint:errcheck
			s.width = 0
			s.mu.Unlock()
			return
		case <-ticker.C:
			s.mu.Lock()
			line := fmt.Sprintf("%s %s (%.0fs)", frames[i%len(frames)], s.message, time.Since(started).Seconds())
			if n := len([]rune(line)); n > s.width {
				s.width = n
			}
			fmt.Fprintf(s.w, "\r%-*s", s.width, line) //nolint:errcheck
			s.mu.Unlock()
		}
	}
}

// Start displays an animated spinner with the given message on w.
// Call the returned function to stop the spinner and clear the line.
func Start(w io.Writer, message string) (stop func()) {
	s := New(w)
	s.Start(message)
	return s.Stop
}
