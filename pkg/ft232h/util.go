package ft232h

import (
	"fmt"

	"github.com/yunginnanet/ft232h"
)

// vidPid renders the low 16 bits of the USB vendor and product IDs in the
// usual four-digit hex form.
func (ft *FT232H) vidPid() (vid string, pid string) {
	return fmt.Sprintf("%04x", ft.VID()&0xFFFF), fmt.Sprintf("%04x", ft.PID()&0xFFFF)
}

func emptyMask(mask *ft232h.Mask) bool {
	if mask == nil {
		return true
	}
	return mask.Serial == "" && mask.PID == "" && mask.VID == "" &&
		mask.Desc == "" && mask.Index == ""
}
