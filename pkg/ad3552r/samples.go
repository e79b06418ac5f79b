package ad3552r

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"time"
)

// WriteMode selects how DAC codes reach the outputs.
type WriteMode uint8

const (
	// WriteDACRegs writes output registers directly; the output moves as soon
	// as each register write lands.
	WriteDACRegs WriteMode = iota
	// WriteInputRegs stages codes in the input registers without updating
	// the outputs.
	WriteInputRegs
	// WriteInputRegsAndTriggerLDAC stages codes, then pulses LDAC so both
	// outputs move atomically.
	WriteInputRegsAndTriggerLDAC
)

// codeRegAddr returns the DAC or input code register for a channel in the
// requested representation.
func codeRegAddr(ch uint8, isDAC, fast bool) uint8 {
	if isDAC {
		if fast {
			return RegChDAC16(ch)
		}
		return RegChDAC24(ch)
	}
	if fast {
		return RegChInput16(ch)
	}
	return RegChInput24(ch)
}

// setCodeValue writes a channel's output code to its precision DAC register.
// Fast-mode channels keep only the upper 12 bits.
func (d *AD3552R) setCodeValue(ch uint8, val uint16) error {
	if d.ch[ch].FastMode {
		val &= MaskDAC12Bit
	}
	return d.WriteReg(codeRegAddr(ch, true, false), val)
}

func (d *AD3552R) getCodeValue(ch uint8) (uint16, error) {
	return d.ReadReg(codeRegAddr(ch, true, false))
}

// LdacTrigger transfers the selected channels' staged input codes to their
// outputs: a fixed-width low pulse on the LDAC pin when one is wired, else a
// write to the software LDAC register.
func (d *AD3552R) LdacTrigger(mask uint16) error {
	if d.ldac == nil {
		return d.WriteReg(RegSWLdac24, mask)
	}

	if err := d.ldac.Set(false); err != nil {
		return err
	}
	time.Sleep(LdacPulseWidth)
	return d.ldac.Set(true)
}

// writeAllChannels packs one code per channel into a single stream transfer
// starting at channel 1's code register; the device's default descending
// address order then covers channel 0 and, when a software LDAC is needed,
// the software LDAC register via one extra mask byte.
func (d *AD3552R) writeAllChannels(data []uint16, mode WriteMode) error {
	fast := d.ch[0].FastMode

	var buf [NumChannels*MaxRegSize + 1]byte
	n := 0
	for ch := 0; ch < NumChannels; ch++ {
		binary.BigEndian.PutUint16(buf[n:], data[ch])
		if fast {
			buf[n+1] &= 0xF0
			n += 2
		} else {
			// Precision registers are three bytes; the third stays zero.
			n += 3
		}
	}

	if mode == WriteInputRegsAndTriggerLDAC && d.ldac == nil {
		buf[n] = MaskAllCh
		n++
	}

	msg := TransferData{
		Addr: codeRegAddr(1, mode == WriteDACRegs, fast),
		Data: buf[:n],
	}
	if err := d.Transfer(&msg); err != nil {
		return err
	}

	if mode == WriteInputRegsAndTriggerLDAC {
		return d.LdacTrigger(MaskAllCh)
	}
	return nil
}

// WriteSamples writes samples codes per selected channel. data is interleaved
// per sample when chMask selects both channels (one combined transfer per
// sample), else a flat sequence for the single selected channel.
func (d *AD3552R) WriteSamples(data []uint16, samples uint32, chMask uint16, mode WriteMode) error {
	if chMask == 0 || chMask > MaskAllCh {
		return fmt.Errorf("channel mask %#x: %w", chMask, ErrInvalidArgument)
	}

	if chMask == MaskAllCh {
		if uint32(len(data)) < samples*NumChannels {
			return fmt.Errorf("%d samples from %d codes: %w",
				samples, len(data), ErrInvalidArgument)
		}
		for i := uint32(0); i < samples; i++ {
			if err := d.writeAllChannels(data[i*NumChannels:(i+1)*NumChannels], mode); err != nil {
				return err
			}
		}
		return nil
	}

	if uint32(len(data)) < samples {
		return fmt.Errorf("%d samples from %d codes: %w",
			samples, len(data), ErrInvalidArgument)
	}

	ch := uint8(bits.TrailingZeros16(chMask))
	addr := codeRegAddr(ch, mode == WriteDACRegs, d.ch[ch].FastMode)
	for i := uint32(0); i < samples; i++ {
		if err := d.WriteReg(addr, data[i]); err != nil {
			return err
		}
		if mode == WriteInputRegsAndTriggerLDAC {
			if err := d.LdacTrigger(chMask); err != nil {
				return err
			}
		}
	}
	return nil
}
