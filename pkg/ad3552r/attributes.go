package ad3552r

import "fmt"

// DevAttr is a device-level logical attribute.
type DevAttr uint8

const (
	// DevAddrAscension reads registers in ascending address order if set,
	// else descending.
	DevAddrAscension DevAttr = iota
	// DevSingleInstruction selects single-instruction mode if set, else
	// stream mode.
	DevSingleInstruction
	// DevStreamMode is the number of addresses to loop on when streaming.
	DevStreamMode
	// DevStreamLengthKeepValue keeps the stream length across transactions.
	DevStreamLengthKeepValue
	DevSDODriveStrength
	DevVrefSelect
	DevCRCEnable

	// Present on the part, not implemented on this transport.
	DevSPIMultiIOMode
	DevSPIDataRate
	DevSPISynchronousEnable
)

// ChAttr is a per-channel logical attribute.
type ChAttr uint8

const (
	ChDACPowerdown ChAttr = iota
	ChAmplifierPowerdown
	ChOutputRangeSel
	ChTriggerSoftwareLDAC
	ChHWLdacMask
	ChSelect

	// Attributes below are not plain register fields.
	ChFastMode
	ChCode
	ChRfb

	// Gain attributes share the per-channel CH_GAIN register. Keep them
	// contiguous; dispatch relies on the range.
	ChRangeOverride
	ChGainOffsetPolarity
	ChGainOffset
	ChGainScalingP
	ChGainScalingN
)

type regField struct {
	addr uint8
	mask uint16
}

type chRegField struct {
	addr uint8
	mask [NumChannels]uint16
}

// devAttrMap translates device attributes to register fields. Fixed for the
// process lifetime.
var devAttrMap = map[DevAttr]regField{
	DevAddrAscension:         {RegInterfaceConfigA, MaskAddrAscension},
	DevSingleInstruction:     {RegInterfaceConfigB, MaskSingleInstruction},
	DevStreamMode:            {RegStreamMode, MaskStreamLength},
	DevStreamLengthKeepValue: {RegTransfer, MaskStreamLengthKeepValue},
	DevSDODriveStrength:      {RegInterfaceConfigD, MaskSDODriveStrength},
	DevVrefSelect:            {RegSHReferenceConfig, MaskReferenceVoltageSel},
	DevCRCEnable:             {RegInterfaceConfigC, MaskCRCEnable},
}

// chAttrMap translates channel attributes to a shared register address plus
// one mask per channel.
var chAttrMap = map[ChAttr]chRegField{
	ChDACPowerdown: {RegPowerdownConfig,
		[NumChannels]uint16{MaskChDACPowerdown(0), MaskChDACPowerdown(1)}},
	ChAmplifierPowerdown: {RegPowerdownConfig,
		[NumChannels]uint16{MaskChAmplifierPowerdown(0), MaskChAmplifierPowerdown(1)}},
	ChOutputRangeSel: {RegCh0Ch1OutputRange,
		[NumChannels]uint16{MaskChOutputRangeSel(0), MaskChOutputRangeSel(1)}},
	ChTriggerSoftwareLDAC: {RegSWLdac16,
		[NumChannels]uint16{MaskCh(0), MaskCh(1)}},
	ChHWLdacMask: {RegHWLdac16,
		[NumChannels]uint16{MaskCh(0), MaskCh(1)}},
	ChSelect: {RegChSelect16,
		[NumChannels]uint16{MaskCh(0), MaskCh(1)}},
}

// updateRegField writes val into the bits covered by mask, reading the
// register first only when the mask does not cover its full width.
func (d *AD3552R) updateRegField(addr uint8, mask, val uint16) error {
	full := uint16(0xFFFF)
	if regLen(addr) == 1 {
		full = 0xFF
	}

	reg := val
	if mask != full {
		old, err := d.ReadReg(addr)
		if err != nil {
			return err
		}
		reg = (old &^ mask) | fieldPrep(mask, val)
	}

	return d.WriteReg(addr, reg)
}

func (d *AD3552R) getRegAttr(attr DevAttr) (uint16, error) {
	f, ok := devAttrMap[attr]
	if !ok {
		return 0, fmt.Errorf("device attribute %d: %w", attr, ErrInvalidArgument)
	}
	reg, err := d.ReadReg(f.addr)
	if err != nil {
		return 0, err
	}
	return fieldGet(f.mask, reg), nil
}

func (d *AD3552R) setRegAttr(attr DevAttr, val uint16) error {
	f, ok := devAttrMap[attr]
	if !ok {
		return fmt.Errorf("device attribute %d: %w", attr, ErrInvalidArgument)
	}
	return d.updateRegField(f.addr, f.mask, val)
}

func (d *AD3552R) getCRCEnable() (uint16, error) {
	reg, err := d.getRegAttr(DevCRCEnable)
	if err != nil {
		return 0, err
	}
	switch reg {
	case CRCEnableValue:
		return 1, nil
	case CRCDisableValue:
		return 0, nil
	}
	return 0, fmt.Errorf("unexpected crc enable field 0x%02X: %w", reg, ErrBadMessage)
}

// setCRCEnable writes one of the two fixed CRC field values. The descriptor's
// CRC flag flips only after the register write succeeds, so a failed toggle
// never desynchronizes the driver from the wire.
func (d *AD3552R) setCRCEnable(enable bool) error {
	val := uint16(CRCDisableValue)
	if enable {
		val = CRCEnableValue
	}
	if err := d.WriteReg(devAttrMap[DevCRCEnable].addr, val); err != nil {
		return err
	}
	d.crcEnabled = enable
	return nil
}

// GetDevValue reads a device-level attribute.
func (d *AD3552R) GetDevValue(attr DevAttr) (uint16, error) {
	switch attr {
	case DevCRCEnable:
		return d.getCRCEnable()
	case DevSPIMultiIOMode, DevSPIDataRate, DevSPISynchronousEnable:
		return 0, fmt.Errorf("device attribute %d: %w", attr, ErrUnsupported)
	}
	return d.getRegAttr(attr)
}

// SetDevValue writes a device-level attribute.
func (d *AD3552R) SetDevValue(attr DevAttr, val uint16) error {
	switch attr {
	case DevCRCEnable:
		return d.setCRCEnable(val != 0)
	case DevSPIMultiIOMode, DevSPIDataRate, DevSPISynchronousEnable:
		return fmt.Errorf("device attribute %d: %w", attr, ErrUnsupported)
	}
	return d.setRegAttr(attr, val)
}

// applySPIConfig writes only the serial-interface fields that differ from
// the cached copy, updating the cache after each successful write. A stale
// stream length is rewritten whenever the device was allowed to clear it
// (keep-value flag unset), even if the requested value is unchanged.
func (d *AD3552R) applySPIConfig(cfg *TransferConfig) error {
	if cfg.MultiIOMode != d.spiCfg.MultiIOMode ||
		cfg.DDR != d.spiCfg.DDR ||
		cfg.Synchronous != d.spiCfg.Synchronous {
		return fmt.Errorf("multi-i/o, ddr, synchronous modes: %w", ErrUnsupported)
	}

	if d.spiCfg.AddrAscension != cfg.AddrAscension {
		if err := d.setRegAttr(DevAddrAscension, boolToReg(cfg.AddrAscension)); err != nil {
			return err
		}
		d.spiCfg.AddrAscension = cfg.AddrAscension
	}
	if d.spiCfg.SingleInstruction != cfg.SingleInstruction {
		if err := d.setRegAttr(DevSingleInstruction, boolToReg(cfg.SingleInstruction)); err != nil {
			return err
		}
		d.spiCfg.SingleInstruction = cfg.SingleInstruction
	}

	oldKeep := d.spiCfg.StreamLengthKeepValue
	if d.spiCfg.StreamLengthKeepValue != cfg.StreamLengthKeepValue {
		if err := d.setRegAttr(DevStreamLengthKeepValue,
			boolToReg(cfg.StreamLengthKeepValue)); err != nil {
			return err
		}
		d.spiCfg.StreamLengthKeepValue = cfg.StreamLengthKeepValue
	}
	if d.spiCfg.StreamModeLength != cfg.StreamModeLength || !oldKeep {
		if !(!oldKeep && cfg.StreamModeLength == 0) {
			if err := d.setRegAttr(DevStreamMode, uint16(cfg.StreamModeLength)); err != nil {
				return err
			}
		}
		d.spiCfg.StreamModeLength = cfg.StreamModeLength
	}

	return nil
}

// GetChValue reads a per-channel attribute.
func (d *AD3552R) GetChValue(attr ChAttr, ch uint8) (uint16, error) {
	if ch >= NumChannels {
		return 0, fmt.Errorf("channel %d: %w", ch, ErrInvalidArgument)
	}

	switch attr {
	case ChFastMode:
		return boolToReg(d.ch[ch].FastMode), nil
	case ChCode:
		return d.getCodeValue(ch)
	case ChRfb:
		return d.ch[ch].Rfb, nil
	}

	if attr >= ChRangeOverride && attr <= ChGainScalingN {
		return d.getGainValue(attr, ch)
	}

	f, ok := chAttrMap[attr]
	if !ok {
		return 0, fmt.Errorf("channel attribute %d: %w", attr, ErrInvalidArgument)
	}
	if f.addr == RegSWLdac16 || f.addr == RegSWLdac24 {
		// LDAC triggers are write-only.
		return 0, fmt.Errorf("channel attribute %d is write-only: %w", attr, ErrInvalidArgument)
	}

	reg, err := d.ReadReg(f.addr)
	if err != nil {
		return 0, err
	}
	return fieldGet(f.mask[ch], reg), nil
}

// SetChValue writes a per-channel attribute, keeping the derived scale and
// offset consistent with every calibration input change.
func (d *AD3552R) SetChValue(attr ChAttr, ch uint8, val uint16) error {
	if ch >= NumChannels {
		return fmt.Errorf("channel %d: %w", ch, ErrInvalidArgument)
	}

	switch attr {
	case ChFastMode:
		d.ch[ch].FastMode = val != 0
		return nil
	case ChCode:
		return d.setCodeValue(ch, val)
	case ChRfb:
		d.ch[ch].Rfb = val
		d.calcGainAndOffset(ch)
		return nil
	}

	if attr >= ChRangeOverride && attr <= ChGainScalingN {
		return d.setGainValue(attr, ch, val)
	}

	f, ok := chAttrMap[attr]
	if !ok {
		return fmt.Errorf("channel attribute %d: %w", attr, ErrInvalidArgument)
	}
	if err := d.updateRegField(f.addr, f.mask[ch], val); err != nil {
		return err
	}

	if attr == ChOutputRangeSel {
		val %= uint16(rangeMaxValue(d.chip)) + 1
		d.ch[ch].Range = uint8(val)
		d.calcGainAndOffset(ch)
	}
	return nil
}

// setGainValue updates one field of a channel's CH_GAIN register via
// read-modify-write. The gain offset magnitude spans nine bits: the low
// eight live in the channel's CH_OFFSET register, bit 8 in CH_GAIN.
func (d *AD3552R) setGainValue(attr ChAttr, ch uint8, val uint16) error {
	reg, err := d.ReadReg(RegChGain(ch))
	if err != nil {
		return err
	}

	var mask uint16
	switch attr {
	case ChGainOffset:
		d.ch[ch].GainOffset = val
		if err = d.WriteReg(RegChOffset(ch), val&MaskChOffsetLow); err != nil {
			return err
		}
		val >>= 8
		mask = MaskChOffsetBit8
	case ChRangeOverride:
		d.ch[ch].RangeOverride = val != 0
		mask = MaskChRangeOverride
	case ChGainOffsetPolarity:
		d.ch[ch].OffsetPolarity = val != 0
		mask = MaskChOffsetPolarity
	case ChGainScalingP:
		if val > uint16(GainScaling0P125) {
			return fmt.Errorf("gain scaling p %d: %w", val, ErrInvalidArgument)
		}
		d.ch[ch].ScalingP = GainScaling(val)
		mask = MaskChGainScalingP
	case ChGainScalingN:
		if val > uint16(GainScaling0P125) {
			return fmt.Errorf("gain scaling n %d: %w", val, ErrInvalidArgument)
		}
		d.ch[ch].ScalingN = GainScaling(val)
		mask = MaskChGainScalingN
	default:
		return fmt.Errorf("channel attribute %d: %w", attr, ErrInvalidArgument)
	}

	reg = (reg &^ mask) | fieldPrep(mask, val)
	if err = d.WriteReg(RegChGain(ch), reg); err != nil {
		return err
	}

	d.calcGainAndOffset(ch)
	return nil
}

func (d *AD3552R) getGainValue(attr ChAttr, ch uint8) (uint16, error) {
	reg, err := d.ReadReg(RegChGain(ch))
	if err != nil {
		return 0, err
	}

	switch attr {
	case ChGainOffset:
		low, err := d.ReadReg(RegChOffset(ch))
		if err != nil {
			return 0, err
		}
		return low | fieldGet(MaskChOffsetBit8, reg)<<8, nil
	case ChRangeOverride:
		return fieldGet(MaskChRangeOverride, reg), nil
	case ChGainOffsetPolarity:
		return fieldGet(MaskChOffsetPolarity, reg), nil
	case ChGainScalingP:
		return fieldGet(MaskChGainScalingP, reg), nil
	case ChGainScalingN:
		return fieldGet(MaskChGainScalingN, reg), nil
	}
	return 0, fmt.Errorf("channel attribute %d: %w", attr, ErrInvalidArgument)
}
