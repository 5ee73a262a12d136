package video

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// SaveSnapshot saves the frame buffer as a timestamped PNG in directory, or in the
// working directory when directory is empty. It returns the written path.
func SaveSnapshot(fb *FrameBuffer, baseName, directory string) (string, error) {
	if directory == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		directory = cwd
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(directory, fmt.Sprintf("%s_%s.png", baseName, timestamp))

	if err := WritePNG(fb, path); err != nil {
		return "", err
	}

	w, h := fb.Size()
	slog.Info("Snapshot saved", "path", path, "size", fmt.Sprintf("%dx%d", w, h), "format", "PNG")
	return path, nil
}

// WritePNG encodes the frame buffer as a PNG file at path.
func WritePNG(fb *FrameBuffer, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, fb.Image()); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return file.Close()
}
