package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"

	"github.com/SaadAmawi/VocalFlow/internal/config"
	"github.com/SaadAmawi/VocalFlow/internal/db"
	"github.com/SaadAmawi/VocalFlow/internal/flow"
	"github.com/SaadAmawi/VocalFlow/internal/media"
	"github.com/SaadAmawi/VocalFlow/internal/progress"
)

// stdin is shared so Enter-to-stop prompts don't fight over buffering.
var stdin = bufio.NewReader(os.Stdin)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openFlowStore(cfg *config.Config) (*flow.SQLiteStore, *db.DB, error) {
	database, err := db.Open(filepath.Join(cfg.DataDir, "vocalflow.db"))
	if err != nil {
		return nil, nil, err
	}
	return flow.NewStore(database), database, nil
}

func confirm(label string) bool {
	p := promptui.Prompt{Label: label, IsConfirm: true}
	_, err := p.Run()
	return err == nil
}

// captureClip records one take from the configured capture device: Enter
// starts, Enter stops (or the duration limit does), and the user may
// discard and retake until satisfied.
func captureClip(ctx context.Context, cfg *config.Config, maxSeconds int) (media.Clip, error) {
	src := media.NewFFmpegSource(cfg.Capture.FFmpegPath, cfg.Capture.InputFormat, cfg.Capture.Device)
	return captureTakes(ctx, src, progress.NewReporter(), maxSeconds, stdin, func() bool {
		return confirm("Keep this take")
	})
}

// captureTakes drives the record / review / retake loop. The stop waiter's
// read on in always completes before the next read begins, so reads never
// overlap and no take swallows a line meant for a later prompt.
func captureTakes(ctx context.Context, src media.Source, reporter progress.Reporter, maxSeconds int, in *bufio.Reader, keep func() bool) (media.Clip, error) {
	clips := make(chan media.Clip, 1)
	rec := media.NewRecorder(src, media.Options{
		MaxSeconds: maxSeconds,
		OnTick:     reporter.Tick,
		OnClip:     func(c media.Clip) { clips <- c },
	})
	defer rec.Release()

	if err := rec.Acquire(ctx); err != nil {
		return media.Clip{}, err
	}

	for {
		fmt.Print("Press Enter to start recording... ")
		if _, err := in.ReadString('\n'); err != nil {
			return media.Clip{}, err
		}

		if err := rec.Start(); err != nil {
			return media.Clip{}, err
		}
		reporter.Start(maxSeconds)
		fmt.Printf("Recording (Enter to stop, auto-stops at %ds)\n", maxSeconds)

		stopped := make(chan struct{})
		go func() {
			_, err := in.ReadString('\n')
			close(stopped)
			if err == nil {
				// Ignored when the duration limit stopped the take already.
				rec.Stop()
			}
		}()

		clip := <-clips
		reporter.Finish()

		// After an auto-stop the waiter is still blocked on its read; ask
		// for the Enter it is waiting on so it finishes before anyone else
		// touches stdin.
		select {
		case <-stopped:
		default:
			fmt.Print("Recording stopped at the duration limit. Press Enter to continue... ")
			<-stopped
		}

		fmt.Printf("Captured %d bytes (%s)\n", len(clip.Data), clip.MIMEType)

		if keep() {
			return clip, nil
		}
		if err := rec.DiscardAndRestart(ctx); err != nil {
			return media.Clip{}, err
		}
	}
}
