package ad3552r

import "time"

// Constants from the datasheet

// NumChannels is the number of DAC output channels on the AD3552R/AD3542R.
const NumChannels = 2

// Register addresses, primary region (one byte wide).
const (
	// RegInterfaceConfigA holds software reset, address ascension and SDO control.
	RegInterfaceConfigA = 0x00
	// RegInterfaceConfigB holds single-instruction and short-instruction control.
	RegInterfaceConfigB = 0x01
	RegDeviceConfig     = 0x02
	RegChipType         = 0x03
	RegProductIDL       = 0x04
	RegProductIDH       = 0x05
	RegChipGrade        = 0x06
	// RegScratchPad is a read/write register with no device function, used to
	// verify bus connectivity.
	RegScratchPad  = 0x0A
	RegSPIRevision = 0x0B
	RegVendorL     = 0x0C
	RegVendorH     = 0x0D
	RegStreamMode  = 0x0E
	RegTransfer    = 0x0F
	// RegInterfaceConfigC holds the CRC enable field.
	RegInterfaceConfigC  = 0x10
	RegInterfaceStatusA  = 0x11
	RegInterfaceConfigD  = 0x14
	RegSHReferenceConfig = 0x15
	RegErrAlarmMask      = 0x16
	RegErrStatus         = 0x17
	RegPowerdownConfig   = 0x18
	RegCh0Ch1OutputRange = 0x19
)

// RegChOffset returns the gain-offset magnitude register for a channel.
func RegChOffset(ch uint8) uint8 { return 0x1B + ch*2 }

// RegChGain returns the gain/range-override register for a channel.
func RegChGain(ch uint8) uint8 { return 0x1C + ch*2 }

// Register addresses, secondary region. Registers above RegHWLdac16 are two
// bytes wide, registers above RegHWLdac24 are three bytes wide, except the
// LDAC/select registers which stay one byte wide.
const (
	// SecondaryRegionAddr is the first address of the secondary (DAC code)
	// register region. The region is only reachable with address ascension
	// disabled.
	SecondaryRegionAddr = 0x28

	RegHWLdac16        = 0x28
	RegDACPageMask16   = 0x2E
	RegChSelect16      = 0x2F
	RegInputPageMask16 = 0x31
	RegSWLdac16        = 0x32

	RegHWLdac24        = 0x37
	RegDACPageMask24   = 0x3E
	RegChSelect24      = 0x41
	RegInputPageMask24 = 0x44
	RegSWLdac24        = 0x45

	// RegAddrMax is one past the last valid register address.
	RegAddrMax = 0x4C
)

// RegChDAC16 returns a channel's 16-bit (fast mode) DAC register.
func RegChDAC16(ch uint8) uint8 { return 0x2C - (1-ch)*2 }

// RegChInput16 returns a channel's 16-bit (fast mode) input register.
func RegChInput16(ch uint8) uint8 { return 0x36 - (1-ch)*2 }

// RegChDAC24 returns a channel's 24-bit (precision mode) DAC register.
func RegChDAC24(ch uint8) uint8 { return 0x3D - (1-ch)*3 }

// RegChInput24 returns a channel's 24-bit (precision mode) input register.
func RegChInput24(ch uint8) uint8 { return 0x4B - (1-ch)*3 }

// Register field masks.
const (
	// INTERFACE_CONFIG_A
	MaskSoftwareReset = 0x81
	MaskAddrAscension = 0x20
	MaskSDOActive     = 0x10

	// INTERFACE_CONFIG_B
	MaskSingleInstruction = 0x80
	MaskShortInstruction  = 0x08

	// STREAM_MODE
	MaskStreamLength = 0xFF

	// TRANSFER_REGISTER
	MaskMultiIOMode           = 0xC0
	MaskStreamLengthKeepValue = 0x04

	// INTERFACE_CONFIG_C
	MaskCRCEnable            = 0xC3
	MaskStrictRegisterAccess = 0x20

	// INTERFACE_STATUS_A
	MaskInterfaceNotReady      = 0x80
	MaskClockCountingError     = 0x20
	MaskInvalidOrNoCRC         = 0x08
	MaskWriteToReadOnly        = 0x04
	MaskPartialRegisterAccess  = 0x02
	MaskRegisterAddressInvalid = 0x01

	// INTERFACE_CONFIG_D
	MaskAlertEnablePullup = 0x40
	MaskMemCRCEnable      = 0x10
	MaskSDODriveStrength  = 0x0C
	MaskDualSPISyncEnable = 0x02
	MaskSPIConfigDDR      = 0x01

	// SH_REFERENCE_CONFIG
	MaskReferenceVoltageSel = 0x03

	// ERR_STATUS
	MaskRefRangeErr         = 0x08
	MaskStreamExceedsDACErr = 0x04
	MaskMemCRCErr           = 0x02
	MaskResetStatus         = 0x01

	// CH_GAIN
	MaskChRangeOverride  = 0x80
	MaskChGainScalingN   = 0x60
	MaskChGainScalingP   = 0x18
	MaskChOffsetPolarity = 0x04
	MaskChOffsetBit8     = 0x01

	// CH_OFFSET
	MaskChOffsetLow = 0xFF

	// MaskAllCh selects both channels in LDAC/select register writes.
	MaskAllCh = 0x03

	// MaskDAC12Bit keeps the upper 12 bits of a left-aligned fast-mode code.
	MaskDAC12Bit = 0xFFF0
)

// MaskChDACPowerdown returns the per-channel DAC powerdown bit.
func MaskChDACPowerdown(ch uint8) uint16 { return 1 << (4 + ch) }

// MaskChAmplifierPowerdown returns the per-channel output amplifier powerdown bit.
func MaskChAmplifierPowerdown(ch uint8) uint16 { return 1 << ch }

// MaskChOutputRangeSel returns the per-channel output range nibble.
func MaskChOutputRangeSel(ch uint8) uint16 {
	if ch != 0 {
		return 0xF0
	}
	return 0x0F
}

// MaskCh returns the per-channel bit used in LDAC and channel-select registers.
func MaskCh(ch uint8) uint16 { return 1 << ch }

// Wire protocol constants.
const (
	// ReadBit is OR'd into the instruction byte for read transactions.
	ReadBit  = 0x80
	AddrMask = 0x7F

	// MaxRegSize is the widest register in bytes.
	MaxRegSize = 3

	// CRCPoly and CRCSeed are fixed by the device; the CRC lookup table is
	// derived from CRCPoly exactly once per descriptor.
	CRCPoly = 0x07
	CRCSeed = 0xA5

	// CRCEnableValue and CRCDisableValue are the only two values the device
	// accepts in the INTERFACE_CONFIG_C CRC field.
	CRCEnableValue  = 0x42
	CRCDisableValue = 0x03

	// DefaultConfigBValue is what INTERFACE_CONFIG_B reads once the interface
	// comes out of reset.
	DefaultConfigBValue = 0x08

	ScratchPadTestVal1 = 0x34
	ScratchPadTestVal2 = 0xB2

	gainScale = 1000

	// resetPollRetries bounds the readiness poll after reset. Exhausting it is
	// a fatal I/O timeout, never an indefinite wait.
	resetPollRetries = 5000
)

// LdacPulseWidth is how long the hardware LDAC pin is held low per trigger.
const LdacPulseWidth = 100 * time.Microsecond

// ChipID selects the device variant.
type ChipID uint8

const (
	AD3542RID ChipID = iota
	AD3552RID
)

func (id ChipID) String() string {
	switch id {
	case AD3542RID:
		return "AD3542R"
	case AD3552RID:
		return "AD3552R"
	default:
		return "(invalid chip id)"
	}
}

// chipIDs holds the expected PRODUCT_ID_H:PRODUCT_ID_L value per variant.
var chipIDs = [...]uint16{
	AD3542RID: 0x4008,
	AD3552RID: 0x4009,
}

// Output range selector codes for the AD3542R.
const (
	AD3542RRange0To2V5 = iota
	AD3542RRange0To3V
	AD3542RRange0To5V
	AD3542RRange0To10V
	AD3542RRangeNeg2V5To7V5
	AD3542RRangeNeg5To5V
)

// Output range selector codes for the AD3552R.
const (
	AD3552RRange0To2V5 = iota
	AD3552RRange0To5V
	AD3552RRange0To10V
	AD3552RRangeNeg5To5V
	AD3552RRangeNeg10To10V
)

// RangeCustom marks a channel as using the custom gain/offset output range
// instead of a table entry.
const RangeCustom = 0xFF

// rangeMaxValue returns the highest valid table range code for a variant.
func rangeMaxValue(id ChipID) uint8 {
	if id == AD3542RID {
		return AD3542RRangeNeg5To5V
	}
	return AD3552RRangeNeg10To10V
}

// GainScaling is one of four discrete gain multipliers used by the custom
// output range: 1, 0.5, 0.25 or 0.125.
type GainScaling uint8

const (
	GainScaling1 GainScaling = iota
	GainScaling0P5
	GainScaling0P25
	GainScaling0P125
)

// VrefSelect configures the voltage reference source and pin behavior.
type VrefSelect uint16

const (
	// VrefInternalPinFloating uses the internal reference, VREF pin floating.
	VrefInternalPinFloating VrefSelect = iota
	// VrefInternalPin2V5 uses the internal reference and drives it on the pin.
	VrefInternalPin2V5
	// VrefExternalPinInput takes the reference from the VREF pin.
	VrefExternalPinInput
)
