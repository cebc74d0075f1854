package fscc

import (
	"fmt"
	"strings"
)

// validateDevicePath rejects paths that cannot name a device node before the
// OS is consulted. Such paths are reported as ErrNotFound as well.
func validateDevicePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: %w: device path cannot be empty", ErrNotFound, ErrInvalidPath)
	}
	// Security: Prevent path traversal attacks
	if strings.Contains(path, "..") {
		return fmt.Errorf("%w: %w: %q contains path traversal", ErrNotFound, ErrInvalidPath, path)
	}
	return nil
}

// ListPorts returns the FSCC device nodes present on this system, sorted by name.
func ListPorts() ([]string, error) {
	ports, err := listPorts()
	if err != nil {
		return nil, err
	}
	return ports, nil
}
