package fscc

import (
	"fmt"
	"sort"
	"strings"
)

// Registers is the typed register view of a Port. It holds no state of its
// own; every access goes to the port's device handle, so once the port is
// closed every method fails with ErrClosed.
type Registers struct {
	port *Port
}

// Get returns the current value of reg.
func (r *Registers) Get(reg Register) (uint32, error) {
	return r.port.ReadRegister(reg)
}

// Set writes value into reg. Read-only registers and values above 0x7FFFFFFF
// are rejected before the device is touched.
func (r *Registers) Set(reg Register, value uint32) error {
	return r.port.WriteRegister(reg, value)
}

// Snapshot reads regs in a single device request. With no arguments every
// register is read.
func (r *Registers) Snapshot(regs ...Register) (map[Register]uint32, error) {
	if len(regs) == 0 {
		regs = AllRegisters()
	}
	return r.port.readRegisters(regs)
}

// Apply writes every entry of values in a single device request. Nothing is
// written if any entry is invalid.
func (r *Registers) Apply(values map[Register]uint32) error {
	if len(values) == 0 {
		return nil
	}
	return r.port.writeRegisters(values)
}

func (r *Registers) CCR0() (uint32, error) { return r.Get(CCR0) }
func (r *Registers) CCR1() (uint32, error) { return r.Get(CCR1) }
func (r *Registers) CCR2() (uint32, error) { return r.Get(CCR2) }

// Version identifies the card's hardware and firmware, decoded from VSTR.
type Version struct {
	PDEV uint16 // device id
	PREV uint8  // revision id
	FREV uint8  // firmware revision
}

func (v Version) String() string {
	return fmt.Sprintf("PDEV=0x%04x PREV=0x%02x FREV=0x%02x", v.PDEV, v.PREV, v.FREV)
}

// DecodeVersion splits a VSTR value into its fields.
func DecodeVersion(vstr uint32) Version {
	return Version{
		PDEV: uint16((vstr & 0xFFFF0000) >> 16),
		PREV: uint8((vstr & 0x0000FF00) >> 8),
		FREV: uint8(vstr & 0x000000FF),
	}
}

// Version reads VSTR and decodes it.
func (r *Registers) Version() (Version, error) {
	vstr, err := r.Get(VSTR)
	if err != nil {
		return Version{}, err
	}
	return DecodeVersion(vstr), nil
}

// FormatRegisters renders values one per line as "NAME = 0x%08x", ordered by
// register offset.
func FormatRegisters(values map[Register]uint32) string {
	regs := make([]Register, 0, len(values))
	for reg := range values {
		regs = append(regs, reg)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].Offset() < regs[j].Offset() })

	var sb strings.Builder
	for _, reg := range regs {
		fmt.Fprintf(&sb, "%s = 0x%08x\n", reg, values[reg])
	}
	return sb.String()
}
