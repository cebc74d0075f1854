//go:build !linux

package fscc

import "fmt"

func openCharDevice(path string, _ AccessMode) (deviceHandle, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, path)
}

func globPorts() ([]string, error) {
	return nil, ErrUnsupportedPlatform
}
