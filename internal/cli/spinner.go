package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// spinnerFrames cycles on stderr while a render is in flight. Layout can
// take seconds on large graphs, so the terminal should not look stuck.
var spinnerFrames = []string{"⠋", "⠙", "⠸", "⠴", "⠦", "⠇"}

// spinner animates a transient status line on stderr until stopped. It
// starts on creation and also winds down when ctx is cancelled, so a
// Ctrl-C during layout leaves a clean line behind.
type spinner struct {
	message string
	cancel  context.CancelFunc
	done    chan struct{}
}

// newSpinner starts a spinner showing message.
func newSpinner(ctx context.Context, message string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &spinner{message: message, cancel: cancel, done: make(chan struct{})}
	go s.spin(ctx)
	return s
}

func (s *spinner) spin(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			// Overwrite the status line so the next print starts clean.
			fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
		}
	}
}

// stop halts the animation and clears the line. Safe to call more than
// once; it returns after the line has been cleared.
func (s *spinner) stop() {
	s.cancel()
	<-s.done
}
