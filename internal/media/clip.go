package media

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultMIMEType tags clips produced by the default capture pipeline.
const DefaultMIMEType = "video/webm"

// Clip is an opaque recorded audio/video artifact.
type Clip struct {
	Data     []byte
	MIMEType string
}

// Empty reports whether the clip holds no data.
func (c Clip) Empty() bool { return len(c.Data) == 0 }

// WriteFile stores the clip under dir with a fresh UUID name and returns the
// written path. Used for prompt clips attached to questions at authoring time.
func (c Clip) WriteFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating clip directory: %w", err)
	}
	path := filepath.Join(dir, uuid.New().String()+extForMIME(c.MIMEType))
	if err := os.WriteFile(path, c.Data, 0o644); err != nil {
		return "", fmt.Errorf("writing clip: %w", err)
	}
	return path, nil
}

func extForMIME(mimeType string) string {
	switch mimeType {
	case "video/webm":
		return ".webm"
	case "video/mp4":
		return ".mp4"
	default:
		return ".bin"
	}
}
