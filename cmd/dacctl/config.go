package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mfkiwl/ad3552r/pkg/ad3552r"
	"github.com/mfkiwl/ad3552r/pkg/ft232h"
)

// Profile describes one DAC setup, loaded from YAML.
type Profile struct {
	Chip             string `yaml:"chip"`
	CRC              bool   `yaml:"crc"`
	ExternalVref     bool   `yaml:"external_vref"`
	VrefOut          bool   `yaml:"vref_out"`
	SDODriveStrength uint8  `yaml:"sdo_drive_strength"`

	// C-bus pin masks; omit to fall back to software reset / software LDAC.
	ResetPin *uint `yaml:"reset_pin"`
	LDACPin  *uint `yaml:"ldac_pin"`

	Channels []ChannelProfile `yaml:"channels"`
}

type ChannelProfile struct {
	Enable   bool   `yaml:"enable"`
	FastMode bool   `yaml:"fast_mode"`
	// Range names a table output range in volts ("0-2.5", "-10-10", ...) or
	// "custom" to use the custom block.
	Range  string         `yaml:"range"`
	Custom *CustomProfile `yaml:"custom"`
}

type CustomProfile struct {
	GainOffset int16  `yaml:"gain_offset"`
	ScalingP   string `yaml:"scaling_p"`
	ScalingN   string `yaml:"scaling_n"`
	RfbOhms    uint16 `yaml:"rfb_ohms"`
}

// LoadProfile reads and parses a profile file.
func LoadProfile(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err = yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if len(p.Channels) > ad3552r.NumChannels {
		return nil, fmt.Errorf("profile lists %d channels, device has %d",
			len(p.Channels), ad3552r.NumChannels)
	}
	return &p, nil
}

var chipNames = map[string]ad3552r.ChipID{
	"ad3542r": ad3552r.AD3542RID,
	"ad3552r": ad3552r.AD3552RID,
}

var rangeNames = map[ad3552r.ChipID]map[string]uint8{
	ad3552r.AD3542RID: {
		"0-2.5":    ad3552r.AD3542RRange0To2V5,
		"0-3":      ad3552r.AD3542RRange0To3V,
		"0-5":      ad3552r.AD3542RRange0To5V,
		"0-10":     ad3552r.AD3542RRange0To10V,
		"-2.5-7.5": ad3552r.AD3542RRangeNeg2V5To7V5,
		"-5-5":     ad3552r.AD3542RRangeNeg5To5V,
	},
	ad3552r.AD3552RID: {
		"0-2.5":  ad3552r.AD3552RRange0To2V5,
		"0-5":    ad3552r.AD3552RRange0To5V,
		"0-10":   ad3552r.AD3552RRange0To10V,
		"-5-5":   ad3552r.AD3552RRangeNeg5To5V,
		"-10-10": ad3552r.AD3552RRangeNeg10To10V,
	},
}

var scalingNames = map[string]ad3552r.GainScaling{
	"1":     ad3552r.GainScaling1,
	"0.5":   ad3552r.GainScaling0P5,
	"0.25":  ad3552r.GainScaling0P25,
	"0.125": ad3552r.GainScaling0P125,
}

func (c *ChannelProfile) channelInit(chip ad3552r.ChipID) (ad3552r.ChannelInit, error) {
	init := ad3552r.ChannelInit{
		Enable:   c.Enable,
		FastMode: c.FastMode,
	}
	if !c.Enable {
		return init, nil
	}

	if c.Range == "custom" {
		if c.Custom == nil {
			return init, fmt.Errorf("custom range selected without a custom block")
		}
		scaleP, ok := scalingNames[c.Custom.ScalingP]
		if !ok {
			return init, fmt.Errorf("unknown gain scaling %q", c.Custom.ScalingP)
		}
		scaleN, ok := scalingNames[c.Custom.ScalingN]
		if !ok {
			return init, fmt.Errorf("unknown gain scaling %q", c.Custom.ScalingN)
		}
		init.Range = ad3552r.RangeCustom
		init.Custom = ad3552r.CustomOutputRange{
			GainOffset: c.Custom.GainOffset,
			ScalingP:   scaleP,
			ScalingN:   scaleN,
			RfbOhms:    c.Custom.RfbOhms,
		}
		return init, nil
	}

	rng, ok := rangeNames[chip][c.Range]
	if !ok {
		return init, fmt.Errorf("unknown output range %q for %s", c.Range, chip)
	}
	init.Range = rng
	return init, nil
}

// InitParam maps the profile onto driver parameters, building pin handles on
// the given device.
func (p *Profile) InitParam(ft *ft232h.FT232H) (ad3552r.InitParam, error) {
	chip, ok := chipNames[p.Chip]
	if !ok {
		return ad3552r.InitParam{}, fmt.Errorf("unknown chip %q", p.Chip)
	}

	param := ad3552r.InitParam{
		ChipID:           chip,
		CRCEnable:        p.CRC,
		UseExternalVref:  p.ExternalVref,
		VrefOutEnable:    p.VrefOut,
		SDODriveStrength: p.SDODriveStrength,
	}
	if p.ResetPin != nil {
		param.ResetPin = ft.OutputPin(*p.ResetPin)
	}
	if p.LDACPin != nil {
		param.LDACPin = ft.OutputPin(*p.LDACPin)
	}

	for i, ch := range p.Channels {
		init, err := ch.channelInit(chip)
		if err != nil {
			return ad3552r.InitParam{}, fmt.Errorf("channel %d: %w", i, err)
		}
		param.Channels[i] = init
	}
	return param, nil
}
