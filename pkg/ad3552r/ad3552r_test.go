package ad3552r

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("HappyPath", func(t *testing.T) {
		fake := newFakeDevice(AD3552RID)
		rst := &fakePin{}
		ldac := &fakePin{}

		d, err := New(fake, InitParam{
			ChipID:   AD3552RID,
			ResetPin: rst,
			LDACPin:  ldac,
			Channels: [NumChannels]ChannelInit{
				{Enable: true, Range: AD3552RRangeNeg10To10V},
				{},
			},
		})
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		// Hardware reset: pin driven high, pulsed low, released high.
		wantLevels := []bool{true, false, true}
		if len(rst.levels) != len(wantLevels) {
			t.Fatalf("reset pin levels %v, want %v", rst.levels, wantLevels)
		}
		for i, want := range wantLevels {
			if rst.levels[i] != want {
				t.Fatalf("reset pin levels %v, want %v", rst.levels, wantLevels)
			}
		}
		if !ldac.directed || !ldac.level {
			t.Error("ldac pin not driven high")
		}

		if fake.regs[RegInterfaceConfigC] != CRCDisableValue {
			t.Errorf("crc field = 0x%02X, want 0x%02X",
				fake.regs[RegInterfaceConfigC], CRCDisableValue)
		}
		if fake.regs[RegScratchPad] != ScratchPadTestVal2 {
			t.Errorf("scratch pad = 0x%02X, want 0x%02X",
				fake.regs[RegScratchPad], ScratchPadTestVal2)
		}
		if fake.regs[RegCh0Ch1OutputRange] != AD3552RRangeNeg10To10V {
			t.Errorf("range reg = 0x%02X, want 0x%02X",
				fake.regs[RegCh0Ch1OutputRange], AD3552RRangeNeg10To10V)
		}
		// The disabled channel's amplifier is powered down.
		if fake.regs[RegPowerdownConfig] != MaskChAmplifierPowerdown(1) {
			t.Errorf("powerdown reg = 0x%02X, want 0x%02X",
				fake.regs[RegPowerdownConfig], MaskChAmplifierPowerdown(1))
		}

		integer, micro, err := d.Scale(0)
		if err != nil {
			t.Fatalf("scale: %v", err)
		}
		if integer != 0 || micro != 305176 {
			t.Errorf("scale = %d.%06d, want 0.305176", integer, micro)
		}

		if err = d.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if fake.closed != 1 || rst.closed != 1 || ldac.closed != 1 {
			t.Errorf("close counts spi=%d reset=%d ldac=%d, want 1 each",
				fake.closed, rst.closed, ldac.closed)
		}
	})

	t.Run("SoftwareResetWithoutPin", func(t *testing.T) {
		fake := newFakeDevice(AD3542RID)
		d, err := New(fake, InitParam{ChipID: AD3542RID})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		defer d.Close()

		if fake.regs[RegInterfaceConfigA]&MaskSoftwareReset != MaskSoftwareReset {
			t.Errorf("config a = 0x%02X, software reset bits not written",
				fake.regs[RegInterfaceConfigA])
		}
	})

	t.Run("CustomGain", func(t *testing.T) {
		fake := newFakeDevice(AD3552RID)
		d, err := New(fake, InitParam{
			ChipID: AD3552RID,
			Channels: [NumChannels]ChannelInit{
				{Enable: true, Range: RangeCustom, Custom: CustomOutputRange{
					GainOffset: -5,
					ScalingP:   GainScaling0P5,
					ScalingN:   GainScaling1,
					RfbOhms:    1000,
				}},
				{},
			},
		})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		defer d.Close()

		// Override, negative polarity and positive scaling code 1 land in
		// CH_GAIN; the offset magnitude in CH_OFFSET.
		wantGain := uint16(MaskChRangeOverride | MaskChOffsetPolarity | 1<<3)
		if fake.regs[RegChGain(0)] != wantGain {
			t.Errorf("gain reg = 0x%02X, want 0x%02X", fake.regs[RegChGain(0)], wantGain)
		}
		if fake.regs[RegChOffset(0)] != 5 {
			t.Errorf("offset reg = 0x%02X, want 0x05", fake.regs[RegChOffset(0)])
		}
		if !d.ch[0].RangeOverride || d.ch[0].Rfb != 1000 {
			t.Errorf("channel state override=%v rfb=%d, want true, 1000",
				d.ch[0].RangeOverride, d.ch[0].Rfb)
		}
	})

	t.Run("ScratchPadFault", func(t *testing.T) {
		fake := newFakeDevice(AD3552RID)
		fake.corruptScratchPad = true
		rst := &fakePin{}
		ldac := &fakePin{}

		_, err := New(fake, InitParam{ChipID: AD3552RID, ResetPin: rst, LDACPin: ldac})
		if !errors.Is(err, ErrNoDevice) {
			t.Fatalf("err = %v, want ErrNoDevice", err)
		}
		// Acquired resources released, the never-acquired LDAC pin untouched.
		if fake.closed != 1 || rst.closed != 1 {
			t.Errorf("close counts spi=%d reset=%d, want 1 each", fake.closed, rst.closed)
		}
		if ldac.closed != 0 || ldac.directed {
			t.Error("ldac pin touched before acquisition point")
		}
	})

	t.Run("WrongChip", func(t *testing.T) {
		fake := newFakeDevice(AD3542RID)
		_, err := New(fake, InitParam{ChipID: AD3552RID})
		if !errors.Is(err, ErrNoDevice) {
			t.Fatalf("err = %v, want ErrNoDevice", err)
		}
		if fake.closed != 1 {
			t.Errorf("spi closed %d times, want 1", fake.closed)
		}
	})

	t.Run("InterfaceNeverReady", func(t *testing.T) {
		fake := newFakeDevice(AD3552RID)
		fake.neverReady = true
		_, err := New(fake, InitParam{ChipID: AD3552RID})
		if !errors.Is(err, ErrIoTimeout) {
			t.Fatalf("err = %v, want ErrIoTimeout", err)
		}
		if fake.closed != 1 {
			t.Errorf("spi closed %d times, want 1", fake.closed)
		}
	})

	t.Run("ResetPinFault", func(t *testing.T) {
		fake := newFakeDevice(AD3552RID)
		rst := &fakePin{failDir: true}
		if _, err := New(fake, InitParam{ChipID: AD3552RID, ResetPin: rst}); err == nil {
			t.Fatal("New unexpectedly succeeded")
		}
		if fake.closed != 1 || rst.closed != 1 {
			t.Errorf("close counts spi=%d reset=%d, want 1 each", fake.closed, rst.closed)
		}
	})

	t.Run("LdacPinFault", func(t *testing.T) {
		fake := newFakeDevice(AD3552RID)
		ldac := &fakePin{failDir: true}
		if _, err := New(fake, InitParam{ChipID: AD3552RID, LDACPin: ldac}); err == nil {
			t.Fatal("New unexpectedly succeeded")
		}
		if fake.closed != 1 || ldac.closed != 1 {
			t.Errorf("close counts spi=%d ldac=%d, want 1 each", fake.closed, ldac.closed)
		}
	})

	t.Run("InvalidArguments", func(t *testing.T) {
		if _, err := New(nil, InitParam{}); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("nil transport: err = %v, want ErrInvalidArgument", err)
		}
		if _, err := New(newFakeDevice(AD3552RID), InitParam{ChipID: 2}); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("bad chip id: err = %v, want ErrInvalidArgument", err)
		}

		fake := newFakeDevice(AD3552RID)
		_, err := New(fake, InitParam{ChipID: AD3552RID, SDODriveStrength: 4})
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("drive strength: err = %v, want ErrInvalidArgument", err)
		}

		fake = newFakeDevice(AD3552RID)
		_, err = New(fake, InitParam{
			ChipID: AD3552RID,
			Channels: [NumChannels]ChannelInit{
				{Enable: true, Range: AD3552RRangeNeg10To10V + 1},
				{},
			},
		})
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("table range: err = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestCheckScratchPad(t *testing.T) {
	fake := newFakeDevice(AD3552RID)
	d := newTestDevice(fake)

	if err := d.checkScratchPad(); err != nil {
		t.Fatalf("checkScratchPad: %v", err)
	}

	fake.corruptScratchPad = true
	if err := d.checkScratchPad(); !errors.Is(err, ErrNoDevice) {
		t.Errorf("err = %v, want ErrNoDevice", err)
	}
}
