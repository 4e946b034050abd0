package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MaxInputSize bounds image, cover and drawing files read from disk.
const MaxInputSize = 32 << 20

// readInput resolves a raw path given on the command line and reads the
// regular file it names. Directories, devices, pipes and sockets are
// rejected, as are files over MaxInputSize.
func readInput(rawPath string) ([]byte, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	mode := info.Mode()
	switch {
	case mode.IsDir():
		return nil, fmt.Errorf("%s is a directory", absPath)
	case mode&os.ModeDevice != 0:
		return nil, fmt.Errorf("device files not supported: %s", absPath)
	case mode&os.ModeNamedPipe != 0:
		return nil, fmt.Errorf("named pipes not supported: %s", absPath)
	case mode&os.ModeSocket != 0:
		return nil, fmt.Errorf("sockets not supported: %s", absPath)
	}
	if info.Size() > MaxInputSize {
		return nil, fmt.Errorf("%s is %d bytes, limit is %d", absPath, info.Size(), MaxInputSize)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", absPath, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", absPath, err)
	}
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%s grew past %d bytes while reading", absPath, MaxInputSize)
	}
	return data, nil
}
