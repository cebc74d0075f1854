package fscc

import "github.com/juju/errors"

const (
	// ErrNotFound is returned when the device path does not exist or does not
	// refer to a compatible FSCC port.
	ErrNotFound = errors.ConstError("fscc: device not found")
	// ErrPermission is returned when the caller may not open the device node.
	ErrPermission = errors.ConstError("fscc: permission denied")
	// ErrClosed is returned by every operation on a port that has been closed.
	ErrClosed = errors.ConstError("fscc: port closed")

	// ErrAccessDenied is returned for frame I/O the port's access mode does not allow.
	ErrAccessDenied = errors.ConstError("fscc: operation not permitted by access mode")
	// ErrInvalidAccessMode is returned for an access mode other than read, write or read-write.
	ErrInvalidAccessMode = errors.ConstError("fscc: invalid access mode")
	// ErrUnknownRegister is returned for a register name or value not in the register map.
	ErrUnknownRegister = errors.ConstError("fscc: unknown register")
	// ErrReadOnlyRegister is returned when writing STAR or VSTR.
	ErrReadOnlyRegister = errors.ConstError("fscc: register is read-only")
	// ErrValueOutOfRange is returned when a register value has bit 31 set.
	ErrValueOutOfRange = errors.ConstError("fscc: register value out of range")
	// ErrInvalidBuffer is returned for an empty frame buffer.
	ErrInvalidBuffer = errors.ConstError("fscc: invalid buffer")
	// ErrBufferTooLarge is returned for a frame buffer above the configured maximum.
	ErrBufferTooLarge = errors.ConstError("fscc: buffer exceeds maximum frame size")
	// ErrInvalidPath is returned for an empty device path or one containing "..".
	ErrInvalidPath = errors.ConstError("fscc: invalid device path")
	// ErrUnsupportedPlatform is returned by Open on systems without the FSCC driver.
	ErrUnsupportedPlatform = errors.ConstError("fscc: device access is not supported on this platform")
)
