package ad3552r

// Segment is one leg of an SPI transaction. Tx is clocked out, Rx is filled
// with the bytes clocked in; either may be nil. CSChange releases chip select
// after the segment, otherwise CS stays asserted into the next segment.
type Segment struct {
	Tx       []byte
	Rx       []byte
	CSChange bool
}

// SPI is the byte transport the driver runs on. Transfer executes the
// segments back to back under one chip-select envelope, honoring each
// segment's CSChange flag. Implementations are expected to own the bus for
// the duration of the call.
type SPI interface {
	Transfer(segments []Segment) error
	Close() error
}

// Pin is a single GPIO output line, used for the optional RESET and LDAC
// pins. A nil Pin means the line is not wired and the register fallback is
// used instead.
type Pin interface {
	// DirectionOutput configures the line as an output at the given level.
	DirectionOutput(value bool) error
	Set(value bool) error
	Close() error
}
