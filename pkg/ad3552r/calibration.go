package ad3552r

import "fmt"

// ChannelData is the per-channel software state. Scale and offset are
// recomputed whenever any calibration input changes, so they are never stale.
type ChannelData struct {
	FastMode bool

	// Range is the selected table range; meaningful when RangeOverride is
	// unset.
	Range         uint8
	RangeOverride bool

	// Custom range inputs.
	Rfb            uint16
	GainOffset     uint16
	OffsetPolarity bool
	ScalingP       GainScaling
	ScalingN       GainScaling

	// Derived conversion factors, integer part plus fractional part in
	// millionths of a millivolt.
	ScaleInt    int32
	ScaleMicro  int32
	OffsetInt   int32
	OffsetMicro int32
}

// Table output ranges per variant, (v_min, v_max) in millivolts.
var ad3542rChRanges = [...][2]int32{
	AD3542RRange0To2V5:      {0, 2500},
	AD3542RRange0To3V:       {0, 3000},
	AD3542RRange0To5V:       {0, 5000},
	AD3542RRange0To10V:      {0, 10000},
	AD3542RRangeNeg2V5To7V5: {-2500, 7500},
	AD3542RRangeNeg5To5V:    {-5000, 5000},
}

var ad3552rChRanges = [...][2]int32{
	AD3552RRange0To2V5:     {0, 2500},
	AD3552RRange0To5V:      {0, 5000},
	AD3552RRange0To10V:     {0, 10000},
	AD3552RRangeNeg5To5V:   {-5000, 5000},
	AD3552RRangeNeg10To10V: {-10000, 10000},
}

// gainScalingTable maps a GainScaling code to its multiplier in thousandths.
var gainScalingTable = [...]int64{
	GainScaling1:     1000,
	GainScaling0P5:   500,
	GainScaling0P25:  250,
	GainScaling0P125: 125,
}

// customRange computes (v_min, v_max) in millivolts from the channel's
// feedback resistance, gain offset and scaling codes.
//
// From the datasheet formula (in volts):
//
//	Vmax = 2.5 + [(GainN + Offset / 1024) * 2.5 * Rfb * 1.03]
//	Vmin = 2.5 - [(GainP - Offset / 1024) * 2.5 * Rfb * 1.03]
func (d *AD3552R) customRange(ch uint8) (vMin, vMax int32) {
	const vref = 2500
	// 2.5 * 1.03 * 1000 (to mV)
	common := 2575 * int64(d.ch[ch].Rfb)

	offset := int64(d.ch[ch].GainOffset)
	if d.ch[ch].OffsetPolarity {
		offset = -offset
	}

	gn := gainScalingTable[d.ch[ch].ScalingN]
	tmp := (1024*gn + gainScale*offset) * common / (1024 * gainScale)
	vMax = vref + int32(tmp)

	gp := gainScalingTable[d.ch[ch].ScalingP]
	tmp = (1024*gp - gainScale*offset) * common / (1024 * gainScale)
	vMin = vref - int32(tmp)
	return vMin, vMax
}

// calcGainAndOffset rederives the channel's fixed-point scale and offset from
// the active range.
//
// From the datasheet formula:
//
//	Vout = Span * (D / 65536) + Vmin
//
// converted to scale and offset:
//
//	Scale = Span / 65536
//	Offset = 65536 * Vmin / Span
//
// Remainders are kept in millionths. The scale remainder rounds to nearest
// while the offset remainder truncates; the asymmetry matches the device's
// reference convention and is deliberate.
func (d *AD3552R) calcGainAndOffset(ch uint8) {
	var vMin, vMax int32
	if d.ch[ch].RangeOverride {
		vMin, vMax = d.customRange(ch)
	} else {
		idx := d.ch[ch].Range
		if d.chip == AD3542RID {
			vMin, vMax = ad3542rChRanges[idx][0], ad3542rChRanges[idx][1]
		} else {
			vMin, vMax = ad3552rChRanges[idx][0], ad3552rChRanges[idx][1]
		}
	}

	span := int64(vMax) - int64(vMin)
	rem := span % 65536
	d.ch[ch].ScaleInt = int32(span / 65536)
	d.ch[ch].ScaleMicro = int32(divRoundClosest(rem*1000000, 65536))

	tmp := int64(vMin) * 65536
	rem = tmp % span
	d.ch[ch].OffsetInt = int32(tmp / span)
	d.ch[ch].OffsetMicro = int32(rem * 1000000 / span)
}

// Scale returns a channel's code-to-millivolt scale as an integer part and a
// fractional part in millionths.
func (d *AD3552R) Scale(ch uint8) (integer, micro int32, err error) {
	if ch >= NumChannels {
		return 0, 0, fmt.Errorf("channel %d: %w", ch, ErrInvalidArgument)
	}
	return d.ch[ch].ScaleInt, d.ch[ch].ScaleMicro, nil
}

// Offset returns a channel's code offset as an integer part and a fractional
// part in millionths.
func (d *AD3552R) Offset(ch uint8) (integer, micro int32, err error) {
	if ch >= NumChannels {
		return 0, 0, fmt.Errorf("channel %d: %w", ch, ErrInvalidArgument)
	}
	return d.ch[ch].OffsetInt, d.ch[ch].OffsetMicro, nil
}
