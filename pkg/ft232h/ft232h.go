// Package ft232h connects the DAC driver to an FT232H USB bridge: the MPSSE
// engine provides the SPI transport, the C-bus pins the reset and LDAC lines.
package ft232h

import (
	"fmt"

	"github.com/yunginnanet/ft232h"
)

var ErrBadDescriptor = fmt.Errorf("invalid FT232H descriptor provided")

// ConnectFT232h opens an FT232H device. With no descriptor the first device
// found is used; with one, the device matching it.
func ConnectFT232h(choice ...Descriptor) (ft *FT232H, err error) {
	ft = &FT232H{}

	switch len(choice) {
	case 0:
		ft.FT232H, err = ft232h.New()
		return ft, err
	case 1:
		desc := choice[0]
		if err = desc.Validate(); err != nil {
			return nil, err
		}
		ft.FT232H, err = ft232h.OpenMask(desc.Mask())
		if err != nil {
			return nil, err
		}
		ft.info = ft.Info()
	default:
		return nil, fmt.Errorf("invalid number of arguments")
	}

	return ft, err
}
