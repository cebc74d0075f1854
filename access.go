package fscc

import (
	"fmt"
	"strings"
)

// AccessMode is the open mode requested for a port. It decides which frame
// operations are permitted afterwards; register access is available in
// every mode.
type AccessMode int

const (
	AccessRead AccessMode = iota + 1
	AccessWrite
	AccessReadWrite
)

func (m AccessMode) String() string {
	switch m {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessReadWrite:
		return "readwrite"
	}
	return fmt.Sprintf("AccessMode(%d)", int(m))
}

// Valid reports whether m is one of the defined modes.
func (m AccessMode) Valid() bool {
	return m >= AccessRead && m <= AccessReadWrite
}

// CanRead reports whether frames may be read in this mode.
func (m AccessMode) CanRead() bool {
	return m == AccessRead || m == AccessReadWrite
}

// CanWrite reports whether frames may be written in this mode.
func (m AccessMode) CanWrite() bool {
	return m == AccessWrite || m == AccessReadWrite
}

// ParseAccessMode accepts read, write, readwrite and the short forms r, w, rw.
func ParseAccessMode(s string) (AccessMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read", "r", "ro":
		return AccessRead, nil
	case "write", "w", "wo":
		return AccessWrite, nil
	case "readwrite", "read-write", "rw":
		return AccessReadWrite, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAccessMode, s)
}

func (m AccessMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAccessMode, int(m))
	}
	return []byte(m.String()), nil
}

func (m *AccessMode) UnmarshalText(text []byte) error {
	mode, err := ParseAccessMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
