package fscc

import (
	"fmt"
	"sort"
	"strings"
)

// Register names one of the fixed 32-bit configuration registers of an FSCC
// port.
type Register int

const (
	FIFOT Register = iota + 1
	CMDR
	STAR
	CCR0
	CCR1
	CCR2
	BGR
	SSR
	SMR
	TSR
	TMR
	RAR
	RAMR
	PPR
	TCR
	VSTR
	IMR
)

const (
	// registerSlots is the number of 32-bit slots in the driver's register block.
	registerSlots = 22

	// updateValue asks the driver to fill a slot on a get request.
	updateValue int32 = -2
	// skipValue leaves a slot untouched on both get and set requests.
	skipValue int32 = -1

	maxWritableValue = 0x7FFFFFFF
)

type registerInfo struct {
	name     string
	slot     int
	readOnly bool
}

var registerTable = map[Register]registerInfo{
	FIFOT: {name: "FIFOT", slot: 2},
	CMDR:  {name: "CMDR", slot: 5},
	STAR:  {name: "STAR", slot: 6, readOnly: true},
	CCR0:  {name: "CCR0", slot: 7},
	CCR1:  {name: "CCR1", slot: 8},
	CCR2:  {name: "CCR2", slot: 9},
	BGR:   {name: "BGR", slot: 10},
	SSR:   {name: "SSR", slot: 11},
	SMR:   {name: "SMR", slot: 12},
	TSR:   {name: "TSR", slot: 13},
	TMR:   {name: "TMR", slot: 14},
	RAR:   {name: "RAR", slot: 15},
	RAMR:  {name: "RAMR", slot: 16},
	PPR:   {name: "PPR", slot: 17},
	TCR:   {name: "TCR", slot: 18},
	VSTR:  {name: "VSTR", slot: 19, readOnly: true},
	IMR:   {name: "IMR", slot: 21},
}

var registersByName = func() map[string]Register {
	m := make(map[string]Register, len(registerTable))
	for r, info := range registerTable {
		m[info.name] = r
	}
	return m
}()

func (r Register) String() string {
	if info, ok := registerTable[r]; ok {
		return info.name
	}
	return fmt.Sprintf("Register(%d)", int(r))
}

// Valid reports whether r is a known register.
func (r Register) Valid() bool {
	_, ok := registerTable[r]
	return ok
}

// ReadOnly reports whether the driver refuses writes to r.
func (r Register) ReadOnly() bool {
	return registerTable[r].readOnly
}

// Offset returns the byte offset of r within the driver's register block.
func (r Register) Offset() int {
	info, ok := registerTable[r]
	if !ok {
		return -1
	}
	return info.slot * 4
}

// ParseRegister looks a register up by name, ignoring case.
func ParseRegister(name string) (Register, error) {
	r, ok := registersByName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRegister, name)
	}
	return r, nil
}

// AllRegisters returns every register ordered by offset.
func AllRegisters() []Register {
	regs := make([]Register, 0, len(registerTable))
	for r := range registerTable {
		regs = append(regs, r)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].Offset() < regs[j].Offset() })
	return regs
}

func (r Register) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRegister, int(r))
	}
	return []byte(r.String()), nil
}

func (r *Register) UnmarshalText(text []byte) error {
	reg, err := ParseRegister(string(text))
	if err != nil {
		return err
	}
	*r = reg
	return nil
}

// registerBlock mirrors the driver's register structure: one signed 32-bit
// slot per offset, reserved slots included.
type registerBlock [registerSlots]int32

func newRegisterBlock() *registerBlock {
	var b registerBlock
	for i := range b {
		b[i] = skipValue
	}
	return &b
}

func (b *registerBlock) request(r Register) {
	b[registerTable[r].slot] = updateValue
}

func (b *registerBlock) value(r Register) uint32 {
	return uint32(b[registerTable[r].slot])
}

func (b *registerBlock) set(r Register, v uint32) {
	b[registerTable[r].slot] = int32(v)
}

// checkWritable validates a write before any device access.
func checkWritable(r Register, v uint32) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownRegister, int(r))
	}
	if r.ReadOnly() {
		return fmt.Errorf("%w: %s", ErrReadOnlyRegister, r)
	}
	if v > maxWritableValue {
		return fmt.Errorf("%w: %s=0x%08x", ErrValueOutOfRange, r, v)
	}
	return nil
}
