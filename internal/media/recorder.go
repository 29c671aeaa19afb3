package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// Source provides an encoded audio/video stream from a capture device.
// Open hands the caller exclusive ownership of the device; closing the
// returned stream releases it.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	MIMEType() string
}

// DeviceError indicates the capture device could not be acquired
// (missing, busy, or permission denied).
type DeviceError struct {
	Err error
}

func (e *DeviceError) Error() string { return fmt.Sprintf("capture device unavailable: %v", e.Err) }
func (e *DeviceError) Unwrap() error { return e.Err }

// ErrInvalidState is returned when a recorder operation is called outside
// its legal state (e.g. Stop without an active recording).
var ErrInvalidState = errors.New("recorder: invalid state")

type recorderState int

const (
	stateIdle recorderState = iota
	stateLive
	stateRecording
	stateStopping
)

// Options configures a Recorder.
type Options struct {
	// MaxSeconds bounds a single recording; reaching it behaves exactly
	// like an explicit Stop.
	MaxSeconds int
	// OnTick is called once per second of active recording with the
	// elapsed whole seconds. It stops firing at MaxSeconds.
	OnTick func(seconds int)
	// OnClip receives every finished clip, whether stopped explicitly or
	// by the duration limit.
	OnClip func(Clip)
}

// Recorder turns a Source into finite clips. It owns the device stream
// between Acquire and Stop/Discard/Release and guarantees the stream is
// closed on every exit path.
type Recorder struct {
	source Source
	opts   Options
	tick   time.Duration // overridden in tests

	mu       sync.Mutex
	state    recorderState
	stream   io.ReadCloser
	buf      *bytes.Buffer
	elapsed  int
	readDone chan struct{}
	stopTick chan struct{}
	stopDone chan struct{}
}

// NewRecorder creates a recorder over the given source.
func NewRecorder(source Source, opts Options) *Recorder {
	if opts.MaxSeconds <= 0 {
		opts.MaxSeconds = 60
	}
	return &Recorder{
		source: source,
		opts:   opts,
		tick:   time.Second,
	}
}

// Acquire opens the device stream. The recorder must be idle.
func (r *Recorder) Acquire(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != stateIdle {
		return ErrInvalidState
	}

	stream, err := r.source.Open(ctx)
	if err != nil {
		var derr *DeviceError
		if errors.As(err, &derr) {
			return err
		}
		return &DeviceError{Err: err}
	}

	r.stream = stream
	r.state = stateLive
	return nil
}

// Start begins accumulating chunks from the live stream. It fails with
// ErrInvalidState if no stream is held or a recording is already running.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != stateLive {
		return ErrInvalidState
	}

	r.buf = &bytes.Buffer{}
	r.elapsed = 0
	r.readDone = make(chan struct{})
	r.stopTick = make(chan struct{})
	r.stopDone = make(chan struct{})
	r.state = stateRecording

	stream := r.stream
	buf := r.buf
	done := r.readDone
	go func() {
		defer close(done)
		io.Copy(buf, stream)
	}()

	go r.tickLoop(r.stopTick)
	return nil
}

func (r *Recorder) tickLoop(stop chan struct{}) {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.mu.Lock()
			if r.state != stateRecording {
				r.mu.Unlock()
				return
			}
			r.elapsed++
			elapsed := r.elapsed
			limit := elapsed >= r.opts.MaxSeconds
			r.mu.Unlock()

			if r.opts.OnTick != nil {
				r.opts.OnTick(elapsed)
			}
			if limit {
				// Duration limit behaves exactly like an explicit stop.
				// An explicit Stop racing ahead of us is fine.
				r.Stop()
				return
			}
		}
	}
}

// Stop finalizes the accumulated chunks into a Clip, releases the device
// stream, and returns the clip. The clip is also delivered to OnClip.
func (r *Recorder) Stop() (Clip, error) {
	r.mu.Lock()
	if r.state != stateRecording {
		r.mu.Unlock()
		return Clip{}, ErrInvalidState
	}
	r.state = stateStopping

	close(r.stopTick)
	stream := r.stream
	done := r.readDone
	r.mu.Unlock()

	// Closing the stream releases the device and unblocks the reader,
	// flushing any buffered chunks.
	stream.Close()
	<-done

	r.mu.Lock()
	clip := Clip{Data: r.buf.Bytes(), MIMEType: r.source.MIMEType()}
	r.buf = nil
	r.stream = nil
	r.state = stateIdle
	close(r.stopDone)
	r.mu.Unlock()

	if r.opts.OnClip != nil {
		r.opts.OnClip(clip)
	}
	return clip, nil
}

// DiscardAndRestart drops any in-progress recording without producing a
// clip and re-acquires a live stream for a fresh take. The discarded data
// is not recoverable.
func (r *Recorder) DiscardAndRestart(ctx context.Context) error {
	r.mu.Lock()
	switch r.state {
	case stateStopping:
		// An in-flight Stop owns the teardown; wait it out.
		done := r.stopDone
		r.mu.Unlock()
		<-done
		r.mu.Lock()
	case stateRecording:
		close(r.stopTick)
		stream := r.stream
		done := r.readDone
		r.mu.Unlock()
		stream.Close()
		<-done
		r.mu.Lock()
		r.buf = nil
		r.stream = nil
		r.state = stateIdle
	case stateLive:
		r.stream.Close()
		r.stream = nil
		r.state = stateIdle
	}
	r.mu.Unlock()

	return r.Acquire(ctx)
}

// Release tears the recorder down from any state, closing the device
// stream if one is held. Safe to call multiple times.
func (r *Recorder) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == stateStopping {
		// An in-flight Stop owns the teardown; wait for it to finish
		// before touching the recorder state.
		done := r.stopDone
		r.mu.Unlock()
		<-done
		r.mu.Lock()
	}

	switch r.state {
	case stateRecording:
		close(r.stopTick)
		r.stream.Close()
		<-r.readDone
		r.buf = nil
		r.stream = nil
	case stateLive:
		r.stream.Close()
		r.stream = nil
	}
	r.state = stateIdle
}

// Elapsed returns the whole seconds recorded so far.
func (r *Recorder) Elapsed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// Recording reports whether a recording is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == stateRecording
}
