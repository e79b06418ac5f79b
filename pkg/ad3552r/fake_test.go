package ad3552r

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// newTestDevice builds a descriptor around a stub transport, skipping the
// lifecycle, for protocol-level tests.
func newTestDevice(spi SPI) *AD3552R {
	return &AD3552R{
		spi:      spi,
		chip:     AD3552RID,
		crcTable: crc8PopulateMSB(CRCPoly),
		log:      zerolog.Nop(),
	}
}

// fakePin is a resource-tracking Pin stub.
type fakePin struct {
	level    bool
	levels   []bool
	directed bool
	closed   int
	failDir  bool
	failSet  bool
}

func (p *fakePin) DirectionOutput(value bool) error {
	if p.failDir {
		return errors.New("direction refused")
	}
	p.directed = true
	p.level = value
	p.levels = append(p.levels, value)
	return nil
}

func (p *fakePin) Set(value bool) error {
	if p.failSet {
		return errors.New("set refused")
	}
	p.level = value
	p.levels = append(p.levels, value)
	return nil
}

func (p *fakePin) Close() error {
	p.closed++
	return nil
}

// fakeDevice emulates the plain (CRC-off) register protocol over an
// in-memory register map, enough to drive the full lifecycle. Multi-register
// writes walk addresses downward like the real part does with address
// ascension disabled.
type fakeDevice struct {
	regs map[uint8]uint16

	closed int
	reads  int
	writes int

	// Fault injection.
	corruptScratchPad bool
	neverReady        bool
	failWrites        bool
}

func newFakeDevice(chip ChipID) *fakeDevice {
	f := &fakeDevice{regs: make(map[uint8]uint16)}
	f.regs[RegInterfaceConfigB] = DefaultConfigBValue
	f.regs[RegProductIDL] = chipIDs[chip] & 0xFF
	f.regs[RegProductIDH] = chipIDs[chip] >> 8
	f.regs[RegInterfaceConfigC] = CRCDisableValue
	return f
}

func (f *fakeDevice) Close() error {
	f.closed++
	return nil
}

func (f *fakeDevice) readReg(addr uint8) uint16 {
	if f.neverReady && addr == RegInterfaceConfigB {
		return 0
	}
	return f.regs[addr]
}

func (f *fakeDevice) writeReg(addr uint8, val uint16) {
	if f.corruptScratchPad && addr == RegScratchPad {
		val ^= 0x01
	}
	f.regs[addr] = val
}

func (f *fakeDevice) Transfer(segs []Segment) error {
	if len(segs) != 2 || len(segs[0].Tx) != 1 {
		return fmt.Errorf("fake device only speaks plain transactions, got %d segments", len(segs))
	}

	instr := segs[0].Tx[0]
	addr := instr & AddrMask

	if instr&ReadBit != 0 {
		f.reads++
		buf := segs[1].Rx
		val := f.readReg(addr)
		if len(buf) == 1 {
			buf[0] = byte(val)
		} else {
			binary.BigEndian.PutUint16(buf[:2], val)
		}
		return nil
	}

	if f.failWrites {
		return errors.New("write refused")
	}

	f.writes++
	buf := segs[1].Tx
	for len(buf) > 0 {
		w := int(regLen(addr))
		if w == 0 || w > len(buf) {
			return fmt.Errorf("stray write of %d bytes at 0x%02X", len(buf), addr)
		}
		if w == 1 {
			f.writeReg(addr, uint16(buf[0]))
		} else {
			f.writeReg(addr, binary.BigEndian.Uint16(buf[:2]))
		}
		buf = buf[w:]
		// Descending address order, as configured by default: the next
		// register starts one register-width below the one just written.
		addr = uint8(int(addr) - w)
	}
	return nil
}

// echoSPI records every segment and reflects Tx back into Rx, so CRC echo
// checks pass. Queued rxData responses override the echo for read chunks.
type echoSPI struct {
	segments []Segment
	rxQueue  [][]byte
	closed   int
}

func (e *echoSPI) Close() error {
	e.closed++
	return nil
}

func (e *echoSPI) Transfer(segs []Segment) error {
	for _, seg := range segs {
		if seg.Rx != nil {
			if len(e.rxQueue) > 0 {
				copy(seg.Rx, e.rxQueue[0])
				e.rxQueue = e.rxQueue[1:]
			} else if seg.Tx != nil {
				copy(seg.Rx, seg.Tx)
			}
		}
		keep := Segment{CSChange: seg.CSChange}
		if seg.Tx != nil {
			keep.Tx = append([]byte(nil), seg.Tx...)
		}
		if seg.Rx != nil {
			keep.Rx = append([]byte(nil), seg.Rx...)
		}
		e.segments = append(e.segments, keep)
	}
	return nil
}
