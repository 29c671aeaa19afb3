package media

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// FFmpegSource captures the system camera and microphone by shelling out to
// ffmpeg and streaming an encoded webm container from its stdout. The ffmpeg
// process holds the OS device lock; Close on the returned stream kills the
// process and releases the devices.
type FFmpegSource struct {
	Binary      string // ffmpeg executable, default "ffmpeg"
	InputFormat string // capture backend, e.g. v4l2 or avfoundation
	Device      string // device identifier for the chosen backend
}

// NewFFmpegSource builds a source with platform defaults filled in for any
// empty field.
func NewFFmpegSource(binary, inputFormat, device string) *FFmpegSource {
	if binary == "" {
		binary = "ffmpeg"
	}
	if inputFormat == "" || device == "" {
		defFormat, defDevice := platformCaptureDefaults()
		if inputFormat == "" {
			inputFormat = defFormat
		}
		if device == "" {
			device = defDevice
		}
	}
	return &FFmpegSource{Binary: binary, InputFormat: inputFormat, Device: device}
}

func platformCaptureDefaults() (format, device string) {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation", "0:0"
	case "windows":
		return "dshow", "video=Integrated Camera"
	default:
		return "v4l2", "/dev/video0"
	}
}

func (s *FFmpegSource) MIMEType() string { return DefaultMIMEType }

// Open starts the capture process. A failure to start (missing binary,
// device busy, permission denied) is reported as a DeviceError.
func (s *FFmpegSource) Open(ctx context.Context) (io.ReadCloser, error) {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", s.InputFormat,
		"-i", s.Device,
		"-c:v", "libvpx",
		"-c:a", "libopus",
		"-f", "webm",
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, s.Binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &DeviceError{Err: fmt.Errorf("creating capture pipe: %w", err)}
	}
	if err := cmd.Start(); err != nil {
		return nil, &DeviceError{Err: fmt.Errorf("starting %s: %w", s.Binary, err)}
	}

	return &processStream{cmd: cmd, stdout: stdout}, nil
}

// processStream reads from the capture process and tears it down on Close.
type processStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
}

func (p *processStream) Read(b []byte) (int, error) {
	return p.stdout.Read(b)
}

func (p *processStream) Close() error {
	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	p.stdout.Close()
	p.cmd.Wait()
	return nil
}
