package ad3552r

import "errors"

var (
	// ErrInvalidArgument covers nil/out-of-range inputs and register accesses
	// the device forbids, such as secondary-region addresses while address
	// ascension is enabled.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoDevice means the part did not respond like an AD3552R/AD3542R:
	// scratch-pad readback or chip identification failed.
	ErrNoDevice = errors.New("no device found")

	// ErrIoTimeout means the bounded readiness poll was exhausted.
	ErrIoTimeout = errors.New("i/o timeout")

	// ErrBadMessage means a CRC check failed on a read, or a CRC-secured
	// write was not echoed back intact.
	ErrBadMessage = errors.New("bad message")

	// ErrUnsupported marks interface features (multi-I/O, DDR, synchronous
	// dual SPI) not implemented on this transport.
	ErrUnsupported = errors.New("unsupported on this transport")
)
