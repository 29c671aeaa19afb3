package cmd

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SaadAmawi/VocalFlow/internal/media"
)

// takeSource streams a repeating payload until the stream is closed, and
// counts the streams it has handed out and released.
type takeSource struct {
	mu     sync.Mutex
	opened int
	closed int
}

func (s *takeSource) MIMEType() string { return media.DefaultMIMEType }

func (s *takeSource) Open(ctx context.Context) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened++
	return &takeStream{src: s}, nil
}

func (s *takeSource) counts() (opened, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened, s.closed
}

type takeStream struct {
	src  *takeSource
	mu   sync.Mutex
	done bool
}

func (t *takeStream) Read(b []byte) (int, error) {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done {
		return 0, io.EOF
	}
	time.Sleep(time.Millisecond)
	return copy(b, []byte("chunk")), nil
}

func (t *takeStream) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.done {
		t.done = true
		t.src.mu.Lock()
		t.src.closed++
		t.src.mu.Unlock()
	}
	return nil
}

// chanReporter forwards ticks so tests can observe recording progress.
type chanReporter struct{ ticks chan int }

func (r *chanReporter) Start(maxSeconds int) {}
func (r *chanReporter) Tick(seconds int)     { r.ticks <- seconds }
func (r *chanReporter) Finish()              {}

func TestCaptureTakesExplicitStop(t *testing.T) {
	src := &takeSource{}
	in := bufio.NewReader(strings.NewReader("\n\nsentinel\n"))

	clip, err := captureTakes(context.Background(), src, &chanReporter{ticks: make(chan int, 64)}, 60, in,
		func() bool { return true })
	if err != nil {
		t.Fatalf("captureTakes failed: %v", err)
	}
	if clip.MIMEType != media.DefaultMIMEType {
		t.Errorf("mime type: got %q", clip.MIMEType)
	}

	line, err := in.ReadString('\n')
	if err != nil || line != "sentinel\n" {
		t.Errorf("take consumed the wrong lines: got %q, err %v", line, err)
	}
	opened, closed := src.counts()
	if opened != 1 || closed != 1 {
		t.Errorf("device streams: %d opened, %d closed", opened, closed)
	}
}

// A take that hits the duration limit leaves the stop waiter blocked on
// stdin; the loop must drain exactly one line for it so later prompts see
// the input meant for them.
func TestCaptureTakesAutoStopKeepsStdinInSync(t *testing.T) {
	src := &takeSource{}
	ticks := make(chan int, 4)

	pr, pw := io.Pipe()
	in := bufio.NewReader(pr)
	go func() {
		io.WriteString(pw, "\n") // start the take
		<-ticks                  // the tick at the limit fires the auto-stop
		time.Sleep(50 * time.Millisecond)
		io.WriteString(pw, "\n")         // continue past the auto-stopped take
		io.WriteString(pw, "sentinel\n") // must be left for the caller
		pw.Close()
	}()

	keepCalls := 0
	clip, err := captureTakes(context.Background(), src, &chanReporter{ticks: ticks}, 1, in, func() bool {
		keepCalls++
		return true
	})
	if err != nil {
		t.Fatalf("captureTakes failed: %v", err)
	}
	if clip.Empty() {
		t.Error("auto-stopped clip should not be empty")
	}
	if keepCalls != 1 {
		t.Errorf("keep prompt shown %d times, want 1", keepCalls)
	}

	line, err := in.ReadString('\n')
	if err != nil || line != "sentinel\n" {
		t.Errorf("stop waiter swallowed input meant for the caller: got %q, err %v", line, err)
	}
}

func TestCaptureTakesRetake(t *testing.T) {
	src := &takeSource{}
	in := bufio.NewReader(strings.NewReader("\n\n\n\nsentinel\n"))

	takes := 0
	_, err := captureTakes(context.Background(), src, &chanReporter{ticks: make(chan int, 64)}, 60, in, func() bool {
		takes++
		return takes == 2
	})
	if err != nil {
		t.Fatalf("captureTakes failed: %v", err)
	}
	if takes != 2 {
		t.Errorf("takes recorded: %d, want 2", takes)
	}
	if opened, _ := src.counts(); opened != 2 {
		t.Errorf("expected a fresh stream per take, %d opened", opened)
	}

	line, err := in.ReadString('\n')
	if err != nil || line != "sentinel\n" {
		t.Errorf("retake loop consumed the wrong lines: got %q, err %v", line, err)
	}
}
