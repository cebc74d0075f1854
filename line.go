package fscc

import (
	"fmt"
	"strings"

	gobug "go.bug.st/serial"
)

// Line settings for the asynchronous tty node of an FSCC card.

// BaudRate is a line speed supported on the asynchronous node.
type BaudRate int

func (b BaudRate) Int() int {
	return int(b)
}

const (
	Baud1200   BaudRate = 1200
	Baud2400   BaudRate = 2400
	Baud4800   BaudRate = 4800
	Baud9600   BaudRate = 9600
	Baud19200  BaudRate = 19200
	Baud38400  BaudRate = 38400
	Baud57600  BaudRate = 57600
	Baud115200 BaudRate = 115200
	Baud230400 BaudRate = 230400
	Baud460800 BaudRate = 460800
	Baud921600 BaudRate = 921600
)

type DataBits int

func (d DataBits) Int() int {
	return int(d)
}

const (
	DataBits5 DataBits = 5
	DataBits6 DataBits = 6
	DataBits7 DataBits = 7
	DataBits8 DataBits = 8
)

type Parity gobug.Parity

func (pa Parity) Get() gobug.Parity {
	return gobug.Parity(pa)
}

const (
	ParityNone  = Parity(gobug.NoParity)
	ParityOdd   = Parity(gobug.OddParity)
	ParityEven  = Parity(gobug.EvenParity)
	ParityMark  = Parity(gobug.MarkParity)  // always 1
	ParitySpace = Parity(gobug.SpaceParity) // always 0
)

// ParseParity accepts the usual single-letter forms N, O, E, M and S.
func ParseParity(s string) (Parity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "N", "NONE":
		return ParityNone, nil
	case "O", "ODD":
		return ParityOdd, nil
	case "E", "EVEN":
		return ParityEven, nil
	case "M", "MARK":
		return ParityMark, nil
	case "S", "SPACE":
		return ParitySpace, nil
	}
	return 0, fmt.Errorf("unsupported parity %q (use N,O,E,M,S)", s)
}

type StopBits gobug.StopBits

func (sb StopBits) Get() gobug.StopBits {
	return gobug.StopBits(sb)
}

const (
	StopBits1     = StopBits(gobug.OneStopBit)
	StopBits1Half = StopBits(gobug.OnePointFiveStopBits)
	StopBits2     = StopBits(gobug.TwoStopBits)
)

// ParseStopBits accepts "1", "1.5" and "2".
func ParseStopBits(s string) (StopBits, error) {
	switch strings.TrimSpace(s) {
	case "1":
		return StopBits1, nil
	case "1.5":
		return StopBits1Half, nil
	case "2":
		return StopBits2, nil
	}
	return 0, fmt.Errorf("unsupported stop bits %q (use 1, 1.5 or 2)", s)
}
