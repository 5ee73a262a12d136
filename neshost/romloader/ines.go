package romloader

import (
	"errors"
	"fmt"
)

var inesMagic = []byte{'N', 'E', 'S', 0x1A}

const (
	headerSize  = 16
	trainerSize = 512
	prgBankSize = 16 * 1024
	chrBankSize = 8 * 1024
)

var (
	ErrNotINES   = errors.New("missing iNES header")
	ErrTruncated = errors.New("cartridge image truncated")
)

// Mirroring is the nametable arrangement wired on the cartridge.
type Mirroring int

const (
	Horizontal Mirroring = iota
	Vertical
	FourScreen
)

func (m Mirroring) String() string {
	switch m {
	case Vertical:
		return "vertical"
	case FourScreen:
		return "four-screen"
	default:
		return "horizontal"
	}
}

// Header is the decoded 16-byte iNES header.
type Header struct {
	PRGBanks  int // 16KB units
	CHRBanks  int // 8KB units, 0 means CHR RAM
	Mapper    int
	Mirroring Mirroring
	Battery   bool
	Trainer   bool
}

// PRGSize returns the program ROM size in bytes.
func (h Header) PRGSize() int { return h.PRGBanks * prgBankSize }

// CHRSize returns the character ROM size in bytes.
func (h Header) CHRSize() int { return h.CHRBanks * chrBankSize }

// ParseHeader decodes the iNES header of a cartridge image and checks the image
// is long enough to hold the banks it declares.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < headerSize || string(data[:4]) != string(inesMagic) {
		return Header{}, ErrNotINES
	}

	flags6, flags7 := data[6], data[7]
	h := Header{
		PRGBanks: int(data[4]),
		CHRBanks: int(data[5]),
		Mapper:   int(flags7&0xF0) | int(flags6>>4),
		Battery:  flags6&0x02 != 0,
		Trainer:  flags6&0x04 != 0,
	}
	switch {
	case flags6&0x08 != 0:
		h.Mirroring = FourScreen
	case flags6&0x01 != 0:
		h.Mirroring = Vertical
	}

	want := headerSize + h.PRGSize() + h.CHRSize()
	if h.Trainer {
		want += trainerSize
	}
	if len(data) < want {
		return h, fmt.Errorf("%w: have %d bytes, header declares %d", ErrTruncated, len(data), want)
	}
	return h, nil
}
