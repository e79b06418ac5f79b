package ad3552r

// StatusFlag is a decoded device status/error condition.
type StatusFlag uint16

const (
	StatusInterfaceNotReady StatusFlag = 1 << iota
	StatusClockCountingError
	StatusInvalidOrNoCRC
	StatusWriteToReadOnly
	StatusPartialRegisterAccess
	StatusRegisterAddressInvalid
	StatusRefRangeErr
	StatusStreamExceedsDACErr
	StatusMemCRCErr
	StatusResetOccurred
)

type statusBit struct {
	mask      uint16
	flag      StatusFlag
	name      string
	clearable bool
}

var interfaceStatusBits = [...]statusBit{
	{MaskInterfaceNotReady, StatusInterfaceNotReady, "INTERFACE_NOT_READY", false},
	{MaskClockCountingError, StatusClockCountingError, "CLOCK_COUNTING_ERROR", true},
	{MaskInvalidOrNoCRC, StatusInvalidOrNoCRC, "INVALID_OR_NO_CRC", true},
	{MaskWriteToReadOnly, StatusWriteToReadOnly, "WRITE_TO_READ_ONLY_REGISTER", true},
	{MaskPartialRegisterAccess, StatusPartialRegisterAccess, "PARTIAL_REGISTER_ACCESS", true},
	{MaskRegisterAddressInvalid, StatusRegisterAddressInvalid, "REGISTER_ADDRESS_INVALID", true},
}

var errStatusBits = [...]statusBit{
	{MaskRefRangeErr, StatusRefRangeErr, "REF_RANGE_ERR", true},
	{MaskStreamExceedsDACErr, StatusStreamExceedsDACErr, "STREAM_EXCEEDS_DAC_ERR", true},
	{MaskMemCRCErr, StatusMemCRCErr, "MEM_CRC_ERR", true},
	{MaskResetStatus, StatusResetOccurred, "RESET_STATUS", true},
}

func (d *AD3552R) decodeStatusReg(addr uint8, bitmap []statusBit, clearErrors bool) (StatusFlag, error) {
	reg, err := d.ReadReg(addr)
	if err != nil {
		return 0, err
	}

	var flags StatusFlag
	var clear uint16
	for _, b := range bitmap {
		if reg&b.mask == 0 {
			continue
		}
		flags |= b.flag
		d.log.Debug().Str("bit", b.name).Msg("status bit set")
		if clearErrors && b.clearable {
			clear |= b.mask
		}
	}

	// Sticky bits are write-one-to-clear.
	if clear != 0 {
		if err = d.WriteReg(addr, reg); err != nil {
			return flags, err
		}
	}
	return flags, nil
}

// Status decodes the interface and error status registers into a flag set,
// optionally clearing the sticky error bits.
func (d *AD3552R) Status(clearErrors bool) (StatusFlag, error) {
	flags, err := d.decodeStatusReg(RegInterfaceStatusA, interfaceStatusBits[:], clearErrors)
	if err != nil {
		return 0, err
	}

	errFlags, err := d.decodeStatusReg(RegErrStatus, errStatusBits[:], clearErrors)
	if err != nil {
		return flags, err
	}
	return flags | errFlags, nil
}
