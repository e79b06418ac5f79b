package ft232h

import (
	"fmt"
	"strconv"

	"github.com/yunginnanet/ft232h"
)

// DeviceInfo is a read-only snapshot of an [FT232H] device's identity.
type DeviceInfo struct {
	Index       int
	Serial      string
	Description string
	ProductID   string
	VendorID    string
	IsOpen      bool
	IsHighSpeed bool
}

func (di DeviceInfo) String() string {
	state := "closed"
	if di.IsOpen {
		state = "open"
	}
	speed := ""
	if di.IsHighSpeed {
		speed = ", high-speed"
	}
	return fmt.Sprintf("device %d (%s:%s, serial %q, %q, %s%s)",
		di.Index, di.VendorID, di.ProductID, di.Serial, di.Description, state, speed)
}

// FT232H is an open FT232H device handle.
type FT232H struct {
	*ft232h.FT232H
	info DeviceInfo
}

// Info returns a snapshot of the device information.
func (ft *FT232H) Info() DeviceInfo {
	vid, pid := ft.vidPid()
	return DeviceInfo{
		Index:       ft.Index(),
		Serial:      ft.Serial(),
		Description: ft.Desc(),
		ProductID:   pid,
		VendorID:    vid,
		IsOpen:      ft.IsOpen(),
		IsHighSpeed: ft.IsHiSpeed(),
	}
}

func (ft *FT232H) String() string {
	return ft.Info().String()
}

// Descriptor identifies one FT232H device for connection: a non-negative
// enumeration index, a serial number, or a raw match mask.
type Descriptor struct {
	Index  int
	Serial string
	mask   *ft232h.Mask
}

// ByIndex selects the device at the given enumeration index.
func ByIndex(index int) Descriptor {
	return Descriptor{Index: index}
}

// BySerial selects the device with the given serial number.
func BySerial(serial string) Descriptor {
	return Descriptor{Serial: serial, Index: -1}
}

// ByMask selects the first device matching mask.
func ByMask(mask *ft232h.Mask) Descriptor {
	return Descriptor{mask: mask, Index: -1}
}

// Validate checks that the [Descriptor] can match a device at all.
func (ftd Descriptor) Validate() error {
	if ftd.Index < 0 && ftd.Serial == "" && emptyMask(ftd.mask) {
		return fmt.Errorf("%w: no index, serial or mask", ErrBadDescriptor)
	}
	return nil
}

// Mask folds the [Descriptor] into the mask form the underlying library
// matches devices against. The caller's mask is copied, never mutated.
func (ftd Descriptor) Mask() *ft232h.Mask {
	mask := new(ft232h.Mask)
	if ftd.mask != nil {
		*mask = *ftd.mask
	}
	if ftd.Serial != "" {
		mask.Serial = ftd.Serial
	}
	if ftd.Index >= 0 {
		mask.Index = strconv.Itoa(ftd.Index)
	}
	return mask
}

func (ftd Descriptor) String() string {
	switch {
	case ftd.Serial != "":
		return fmt.Sprintf("Descriptor(serial %s)", ftd.Serial)
	case ftd.Index >= 0:
		return fmt.Sprintf("Descriptor(index %d)", ftd.Index)
	case !emptyMask(ftd.mask):
		return fmt.Sprintf("Descriptor(mask %+v)", *ftd.mask)
	}
	return "Descriptor(invalid)"
}
