package ad3552r

import "testing"

func TestStatus(t *testing.T) {
	t.Run("DecodeWithoutClearing", func(t *testing.T) {
		fake := newFakeDevice(AD3552RID)
		d := newTestDevice(fake)
		fake.regs[RegInterfaceStatusA] = MaskInterfaceNotReady | MaskInvalidOrNoCRC
		fake.regs[RegErrStatus] = MaskResetStatus

		flags, err := d.Status(false)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		want := StatusInterfaceNotReady | StatusInvalidOrNoCRC | StatusResetOccurred
		if flags != want {
			t.Errorf("flags = %#x, want %#x", flags, want)
		}
		if fake.writes != 0 {
			t.Errorf("writes = %d, want 0", fake.writes)
		}
	})

	t.Run("ClearWritesStickyBitsBack", func(t *testing.T) {
		fake := newFakeDevice(AD3552RID)
		d := newTestDevice(fake)
		fake.regs[RegInterfaceStatusA] = MaskInvalidOrNoCRC
		fake.regs[RegErrStatus] = MaskResetStatus | MaskMemCRCErr

		flags, err := d.Status(true)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		want := StatusInvalidOrNoCRC | StatusResetOccurred | StatusMemCRCErr
		if flags != want {
			t.Errorf("flags = %#x, want %#x", flags, want)
		}
		// One write-one-to-clear per register holding sticky bits.
		if fake.writes != 2 {
			t.Errorf("writes = %d, want 2", fake.writes)
		}
	})

	t.Run("NotReadyIsNotClearable", func(t *testing.T) {
		fake := newFakeDevice(AD3552RID)
		d := newTestDevice(fake)
		fake.regs[RegInterfaceStatusA] = MaskInterfaceNotReady

		flags, err := d.Status(true)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if flags != StatusInterfaceNotReady {
			t.Errorf("flags = %#x, want %#x", flags, StatusInterfaceNotReady)
		}
		if fake.writes != 0 {
			t.Errorf("writes = %d, want 0", fake.writes)
		}
	})
}
