package fscc

import (
	"time"

	gobug "go.bug.st/serial"
)

// deviceHandle abstracts the open device node used by Port.
type deviceHandle interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	// GetRegisters fills every slot of b that holds updateValue.
	GetRegisters(b *registerBlock) error
	// SetRegisters writes every non-negative, writable slot of b.
	SetRegisters(b *registerBlock) error
}

// asyncHandle abstracts the subset of go.bug.st/serial.Port used by AsyncPort.
type asyncHandle interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	SetReadTimeout(d time.Duration) error
}

// allow tests to override the OS layer
var (
	openDevice   = openCharDevice
	listPorts    = globPorts
	openSerial   = func(name string, mode *gobug.Mode) (asyncHandle, error) { return gobug.Open(name, mode) }
	getPortsList = gobug.GetPortsList
)
