package ft232h

import (
	"fmt"

	"github.com/yunginnanet/ft232h"

	"github.com/mfkiwl/ad3552r/pkg/ad3552r"
)

// Init configures the MPSSE engine for SPI.
func (ft *FT232H) Init() error {
	return ft.SPI.Init()
}

// Close shuts down the SPI engine and releases the device handle.
func (ft *FT232H) Close() error {
	return ft.SPI.Close()
}

// Bus exposes the device's SPI engine as the register transport the DAC
// driver expects.
func (ft *FT232H) Bus() *Bus {
	return &Bus{ft: ft}
}

// Bus adapts the MPSSE SPI engine to segment-based transfers. The engine is
// half duplex: a segment carrying both directions is clocked write-then-read,
// so the device's CRC echo cannot be observed here. Keep CRC framing disabled
// on this transport.
type Bus struct {
	ft *FT232H
}

var _ ad3552r.SPI = (*Bus)(nil)

// Transfer clocks the segments out back to back. Chip select asserts with the
// first segment and releases wherever a segment asks for it.
func (b *Bus) Transfer(segs []ad3552r.Segment) error {
	start := true
	for i := range segs {
		seg := &segs[i]
		stop := seg.CSChange

		if len(seg.Tx) > 0 {
			txStop := stop && len(seg.Rx) == 0
			if _, err := b.ft.SPI.Write(seg.Tx, start, txStop); err != nil {
				return fmt.Errorf("spi write: %w", err)
			}
			start = false
		}
		if len(seg.Rx) > 0 {
			data, err := b.ft.SPI.Read(uint(len(seg.Rx)), start, stop)
			if err != nil {
				return fmt.Errorf("spi read: %w", err)
			}
			copy(seg.Rx, data)
		}

		// A released chip select must be reasserted by the next segment.
		start = stop
	}
	return nil
}

// Close releases the underlying device handle.
func (b *Bus) Close() error {
	return b.ft.Close()
}

// OutputPin drives one of the FT232H's C-bus pins as a GPIO output, suitable
// for the DAC's reset and LDAC lines.
type OutputPin struct {
	ft  *FT232H
	pin ft232h.CPin
}

var _ ad3552r.Pin = (*OutputPin)(nil)

// OutputPin wraps C-bus pin number pin. The pin is not configured until
// DirectionOutput is called.
func (ft *FT232H) OutputPin(pin uint) *OutputPin {
	return &OutputPin{ft: ft, pin: ft232h.CPin(pin)}
}

func (p *OutputPin) DirectionOutput(value bool) error {
	if err := p.ft.GPIO.ConfigPin(p.pin, ft232h.Output, value); err != nil {
		return fmt.Errorf("config pin %s: %w", p.pin, err)
	}
	return nil
}

func (p *OutputPin) Set(value bool) error {
	if err := p.ft.GPIO.Set(p.pin, value); err != nil {
		return fmt.Errorf("set pin %s: %w", p.pin, err)
	}
	return nil
}

// Close is a no-op; the pin lives on the shared device handle.
func (p *OutputPin) Close() error {
	return nil
}
