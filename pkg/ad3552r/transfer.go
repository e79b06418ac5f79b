package ad3552r

import (
	"encoding/binary"
	"fmt"
)

// TransferData describes one register transaction: a start address, a payload
// spanning one or more register-sized chunks, and the direction. Config, when
// set, is applied to the serial interface before the transfer.
type TransferData struct {
	Addr   uint8
	Data   []byte
	IsRead bool
	Config *TransferConfig
}

// TransferConfig mirrors the device's serial-interface configuration. Only
// fields that differ from the cached copy are written to the device.
type TransferConfig struct {
	// AddrAscension makes multi-register transactions walk addresses upward
	// instead of the default downward.
	AddrAscension bool
	// SingleInstruction disables streaming; every register access carries its
	// own instruction byte.
	SingleInstruction bool
	// StreamModeLength is the address window a stream transaction loops over;
	// zero streams through the whole register map.
	StreamModeLength uint8
	// StreamLengthKeepValue stops the device from clearing STREAM_MODE after
	// each transaction.
	StreamLengthKeepValue bool

	// Multi-I/O, double data rate and synchronous dual-SPI modes exist on the
	// part but are not implemented on this transport.
	MultiIOMode uint8
	DDR         bool
	Synchronous bool
}

// regLen returns the byte width of the register at addr, or zero for
// addresses outside the register map. The map is split into three width
// tiers, with the LDAC and channel-select registers staying one byte wide
// inside the wider tiers.
func regLen(addr uint8) uint8 {
	if addr >= RegAddrMax {
		return 0
	}
	switch addr {
	case RegHWLdac16, RegChSelect16, RegSWLdac16,
		RegHWLdac24, RegChSelect24, RegSWLdac24:
		return 1
	}
	if addr > RegHWLdac24 {
		return 3
	}
	if addr > RegHWLdac16 {
		return 2
	}
	return 1
}

// streamAddr computes the effective register address for a chunk that starts
// inc bytes into a transaction beginning at start. With a non-zero stream
// length the increment wraps inside that window; either way the result wraps
// at the end of the register map.
func streamAddr(start uint8, inc int, streamLen uint8) uint8 {
	step := inc
	if streamLen != 0 {
		step = inc % int(streamLen)
	}
	return uint8(int(start)+step) % RegAddrMax
}

// Transfer performs one register transaction. With CRC enabled the payload is
// sent as CRC-chained register chunks, otherwise as a plain two-segment
// exchange (instruction, then payload).
func (d *AD3552R) Transfer(data *TransferData) error {
	if data == nil || len(data.Data) == 0 {
		return fmt.Errorf("transfer: nil or empty payload: %w", ErrInvalidArgument)
	}

	if data.Config != nil {
		if err := d.applySPIConfig(data.Config); err != nil {
			return err
		}
	}

	instr := data.Addr & AddrMask
	if data.IsRead {
		instr |= ReadBit
	}

	if d.crcEnabled {
		return d.transferWithCRC(data, instr)
	}

	segs := [2]Segment{
		{Tx: []byte{instr}},
		{CSChange: true},
	}
	if data.IsRead {
		segs[1].Rx = data.Data
	} else {
		segs[1].Tx = data.Data
	}
	return d.spi.Transfer(segs[:])
}

// transferWithCRC walks the payload one register at a time, appending a CRC
// byte to each chunk. The first chunk's CRC is seeded with CRC8(instruction);
// continuation chunks are seeded with their own register address. A write is
// verified against the echoed CRC byte; a first-chunk read is verified
// against the returned CRC. Continuation reads are streamed by the device
// without CRC and are not checked. Chip select is released only with the
// final chunk.
func (d *AD3552R) transferWithCRC(data *TransferData, instr byte) error {
	sign := -1
	if d.spiCfg.AddrAscension {
		sign = 1
	}

	// Reject payloads that do not fall on register boundaries along the
	// address walk before anything is clocked out.
	for n, inc := 0, 0; n < len(data.Data); {
		rl := int(regLen(streamAddr(data.Addr, inc, d.spiCfg.StreamModeLength)))
		if n+rl > len(data.Data) {
			return fmt.Errorf("%d byte payload from reg 0x%02X: not register aligned: %w",
				len(data.Data), data.Addr, ErrInvalidArgument)
		}
		inc += sign * rl
		n += rl
	}

	var out, in [MaxRegSize + 2]byte
	inc, i := 0, 0
	for {
		addr := streamAddr(data.Addr, inc, d.spiCfg.StreamModeLength)
		rl := int(regLen(addr))

		var seed byte
		if i > 0 {
			seed = addr
		} else {
			seed = crc8(&d.crcTable, []byte{instr}, CRCSeed)
		}

		n := rl + 1
		if data.IsRead && i > 0 {
			// Continuation reads only clock the bus; the device streams data
			// without expecting a CRC from us.
			for j := 0; j < n; j++ {
				out[j] = 0xFF
			}
		} else {
			p := out[:]
			if i == 0 {
				p[0] = instr
				p = p[1:]
				n++
			}
			copy(p, data.Data[i:i+rl])
			p[rl] = crc8(&d.crcTable, p[:rl], seed)
		}

		seg := Segment{
			Tx:       out[:n],
			Rx:       in[:n],
			CSChange: i+rl >= len(data.Data),
		}
		if err := d.spi.Transfer([]Segment{seg}); err != nil {
			return err
		}

		if data.IsRead {
			p := in[:]
			if i == 0 {
				p = p[1:]
			}
			copy(data.Data[i:i+rl], p[:rl])
			if i == 0 && p[rl] != crc8(&d.crcTable, p[:rl], seed) {
				return fmt.Errorf("read reg 0x%02X: crc mismatch: %w", addr, ErrBadMessage)
			}
		} else {
			last := rl
			if i == 0 {
				last++
			}
			if in[last] != out[last] {
				return fmt.Errorf("write reg 0x%02X: crc echo mismatch: %w", addr, ErrBadMessage)
			}
		}

		inc += sign * rl
		i += rl
		if i >= len(data.Data) {
			return nil
		}
	}
}

// WriteReg writes a single register. Two-byte registers hold left-aligned
// 12-bit fast-mode DAC codes; the low nibble is masked off.
func (d *AD3552R) WriteReg(addr uint8, val uint16) error {
	rl := regLen(addr)
	if rl == 0 || (addr >= SecondaryRegionAddr && d.spiCfg.AddrAscension) {
		return fmt.Errorf("write reg 0x%02X: %w", addr, ErrInvalidArgument)
	}

	var buf [MaxRegSize]byte
	switch rl {
	case 1:
		buf[0] = byte(val)
	case 2:
		val &= MaskDAC12Bit
		binary.BigEndian.PutUint16(buf[:2], val)
	default:
		// Three-byte registers carry the 16-bit code in the top two bytes;
		// the third byte stays zero.
		binary.BigEndian.PutUint16(buf[:2], val)
	}

	msg := TransferData{Addr: addr, Data: buf[:rl]}
	return d.Transfer(&msg)
}

// ReadReg reads a single register.
func (d *AD3552R) ReadReg(addr uint8) (uint16, error) {
	rl := regLen(addr)
	if rl == 0 || (addr >= SecondaryRegionAddr && d.spiCfg.AddrAscension) {
		return 0, fmt.Errorf("read reg 0x%02X: %w", addr, ErrInvalidArgument)
	}

	var buf [MaxRegSize]byte
	msg := TransferData{Addr: addr, Data: buf[:rl], IsRead: true}
	if err := d.Transfer(&msg); err != nil {
		return 0, err
	}

	if rl == 1 {
		return uint16(buf[0]), nil
	}
	return binary.BigEndian.Uint16(buf[:2]), nil
}
