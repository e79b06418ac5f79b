package ad3552r

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// AD3552R drives a single AD3552R or AD3542R dual-channel DAC over an SPI
// transport. A descriptor is exclusively owned by one caller; it performs no
// internal locking and assumes sole use of the bus during each transfer.
type AD3552R struct {
	spi   SPI
	reset Pin
	ldac  Pin

	chip       ChipID
	crcEnabled bool
	crcTable   [256]byte

	// Cached serial-interface configuration, kept in sync with the device by
	// applySPIConfig.
	spiCfg TransferConfig

	ch [NumChannels]ChannelData

	log zerolog.Logger
}

// CustomOutputRange configures a channel's output span from external feedback
// hardware instead of a table range.
type CustomOutputRange struct {
	// GainOffset is the signed gain offset; magnitude goes to the 9-bit
	// offset field, the sign to the polarity bit.
	GainOffset int16
	ScalingP   GainScaling
	ScalingN   GainScaling
	RfbOhms    uint16
}

// ChannelInit is the per-channel configuration applied during New.
type ChannelInit struct {
	Enable   bool
	FastMode bool
	// Range selects a table output range, or RangeCustom to use Custom.
	Range  uint8
	Custom CustomOutputRange
}

// InitParam configures New.
type InitParam struct {
	ChipID ChipID

	// CRCEnable turns on per-transaction CRC framing after reset.
	CRCEnable bool

	// Reference selection: external pin input wins over driving the internal
	// reference out on the pin.
	UseExternalVref bool
	VrefOutEnable   bool

	// SDODriveStrength has four levels, 0..3.
	SDODriveStrength uint8

	// ResetPin and LDACPin are optional. Without a reset pin the driver falls
	// back to the software reset register; without an LDAC pin triggers go
	// through the software LDAC register.
	ResetPin Pin
	LDACPin  Pin

	Channels [NumChannels]ChannelInit

	// Logger receives error and debug detail. Nil means no logging.
	Logger *zerolog.Logger
}

// New brings the device up: reset, readiness poll, CRC setup, scratch-pad
// self-test, chip identification and per-channel configuration. On any
// failure every resource acquired so far (pins, then the transport) is
// released in reverse order and no descriptor is returned.
func New(spi SPI, param InitParam) (*AD3552R, error) {
	if spi == nil {
		return nil, fmt.Errorf("nil spi transport: %w", ErrInvalidArgument)
	}
	if int(param.ChipID) >= len(chipIDs) {
		return nil, fmt.Errorf("chip id %d: %w", param.ChipID, ErrInvalidArgument)
	}

	d := &AD3552R{
		spi:  spi,
		chip: param.ChipID,
		log:  zerolog.Nop(),
	}
	if param.Logger != nil {
		d.log = *param.Logger
	}

	d.crcTable = crc8PopulateMSB(CRCPoly)

	d.reset = param.ResetPin
	if d.reset != nil {
		if err := d.reset.DirectionOutput(true); err != nil {
			return nil, d.teardown(fmt.Errorf("reset pin: %w", err))
		}
	}

	if err := d.Reset(); err != nil {
		d.log.Error().Err(err).Msg("reset failed")
		return nil, d.teardown(err)
	}

	if err := d.SetDevValue(DevCRCEnable, boolToReg(param.CRCEnable)); err != nil {
		d.log.Error().Err(err).Msg("error enabling crc")
		return nil, d.teardown(err)
	}

	if err := d.checkScratchPad(); err != nil {
		d.log.Error().Err(err).Msg("scratch pad test failed")
		return nil, d.teardown(err)
	}

	idl, err := d.ReadReg(RegProductIDL)
	if err != nil {
		return nil, d.teardown(fmt.Errorf("read PRODUCT_ID_L: %w", err))
	}
	idh, err := d.ReadReg(RegProductIDH)
	if err != nil {
		return nil, d.teardown(fmt.Errorf("read PRODUCT_ID_H: %w", err))
	}
	if id := idh<<8 | idl; id != chipIDs[param.ChipID] {
		err = fmt.Errorf("product id 0x%04X, want 0x%04X (%s): %w",
			id, chipIDs[param.ChipID], param.ChipID, ErrNoDevice)
		d.log.Error().Err(err).Msg("product id not matching")
		return nil, d.teardown(err)
	}

	if err = d.configureDevice(&param); err != nil {
		return nil, d.teardown(err)
	}

	return d, nil
}

// teardown releases everything acquired so far, in reverse acquisition order,
// and joins any release errors onto err.
func (d *AD3552R) teardown(err error) error {
	if d.ldac != nil {
		err = errors.Join(err, d.ldac.Close())
		d.ldac = nil
	}
	if d.reset != nil {
		err = errors.Join(err, d.reset.Close())
		d.reset = nil
	}
	return errors.Join(err, d.spi.Close())
}

// Close releases the pin handles and the transport. The descriptor must not
// be used afterwards.
func (d *AD3552R) Close() error {
	return d.teardown(nil)
}

// Reset performs a hardware reset when a reset pin is wired, else a software
// reset, then polls INTERFACE_CONFIG_B until the interface answers with its
// default value and the not-ready bit clears. The poll is bounded; exhausting
// it returns ErrIoTimeout. Address ascension is restored to its default
// (disabled) afterwards.
func (d *AD3552R) Reset() error {
	if d.reset != nil {
		if err := d.reset.Set(false); err != nil {
			return err
		}
		time.Sleep(time.Millisecond)
		if err := d.reset.Set(true); err != nil {
			return err
		}
	} else {
		err := d.updateRegField(RegInterfaceConfigA, MaskSoftwareReset, MaskSoftwareReset)
		if err != nil {
			return err
		}
	}

	firstCheck := false
	for timeout := resetPollRetries; ; {
		val, err := d.ReadReg(RegInterfaceConfigB)
		if err != nil {
			return err
		}

		if !firstCheck {
			if val == DefaultConfigBValue {
				firstCheck = true
			}
		} else if val&MaskInterfaceNotReady == 0 {
			break
		}

		timeout--
		if timeout == 0 {
			return fmt.Errorf("interface not ready after reset: %w", ErrIoTimeout)
		}
	}

	return d.setRegAttr(DevAddrAscension, 0)
}

// checkScratchPad writes two distinct patterns to the scratch-pad register
// and requires exact readback of each, guarding against a floating or
// miswired bus before trusting any further communication.
func (d *AD3552R) checkScratchPad() error {
	for _, want := range [...]uint16{ScratchPadTestVal1, ScratchPadTestVal2} {
		if err := d.WriteReg(RegScratchPad, want); err != nil {
			return err
		}
		got, err := d.ReadReg(RegScratchPad)
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("scratch pad read 0x%02X, want 0x%02X: %w",
				got, want, ErrNoDevice)
		}
	}
	return nil
}

// configCustomGain applies a channel's custom output range in the order the
// device expects: override on, offset polarity, offset magnitude, positive
// scaling, negative scaling, feedback resistance.
func (d *AD3552R) configCustomGain(ch uint8, cfg *CustomOutputRange) error {
	if err := d.SetChValue(ChRangeOverride, ch, 1); err != nil {
		return fmt.Errorf("range override: %w", err)
	}

	polarity := uint16(0)
	offset := cfg.GainOffset
	if offset < 0 {
		polarity = 1
		offset = -offset
	}
	if err := d.SetChValue(ChGainOffsetPolarity, ch, polarity); err != nil {
		return fmt.Errorf("gain offset polarity: %w", err)
	}
	if err := d.SetChValue(ChGainOffset, ch, uint16(offset)); err != nil {
		return fmt.Errorf("gain offset: %w", err)
	}
	if err := d.SetChValue(ChGainScalingP, ch, uint16(cfg.ScalingP)); err != nil {
		return fmt.Errorf("gain scaling p: %w", err)
	}
	if err := d.SetChValue(ChGainScalingN, ch, uint16(cfg.ScalingN)); err != nil {
		return fmt.Errorf("gain scaling n: %w", err)
	}
	if err := d.SetChValue(ChRfb, ch, cfg.RfbOhms); err != nil {
		return fmt.Errorf("rfb: %w", err)
	}
	return nil
}

// configureDevice applies the reference selection, SDO drive strength and
// per-channel configuration, then acquires the optional LDAC pin.
func (d *AD3552R) configureDevice(param *InitParam) error {
	vref := VrefInternalPinFloating
	switch {
	case param.UseExternalVref:
		vref = VrefExternalPinInput
	case param.VrefOutEnable:
		vref = VrefInternalPin2V5
	}
	if err := d.SetDevValue(DevVrefSelect, uint16(vref)); err != nil {
		return err
	}

	if param.SDODriveStrength > 3 {
		return fmt.Errorf("sdo drive strength %d: %w",
			param.SDODriveStrength, ErrInvalidArgument)
	}
	if err := d.SetDevValue(DevSDODriveStrength, uint16(param.SDODriveStrength)); err != nil {
		return err
	}

	for i := uint8(0); i < NumChannels; i++ {
		cfg := param.Channels[i]
		if !cfg.Enable {
			if err := d.SetChValue(ChAmplifierPowerdown, i, 1); err != nil {
				return err
			}
			continue
		}

		d.ch[i].FastMode = cfg.FastMode
		if cfg.Range != RangeCustom {
			if cfg.Range > rangeMaxValue(d.chip) {
				return fmt.Errorf("range %d for channel %d: %w",
					cfg.Range, i, ErrInvalidArgument)
			}
			d.ch[i].Range = cfg.Range
			if err := d.SetChValue(ChOutputRangeSel, i, uint16(cfg.Range)); err != nil {
				return err
			}
		} else if err := d.configCustomGain(i, &cfg.Custom); err != nil {
			d.log.Error().Err(err).Uint8("channel", i).
				Msg("custom gain configuration failed")
			return err
		}
	}

	d.ldac = param.LDACPin
	if d.ldac != nil {
		if err := d.ldac.DirectionOutput(true); err != nil {
			err = errors.Join(fmt.Errorf("ldac pin: %w", err), d.ldac.Close())
			d.ldac = nil
			return err
		}
	}
	return nil
}
