package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/l0nax/go-spew/spew"
	"github.com/rs/zerolog"
	ft232h2 "github.com/yunginnanet/ft232h"

	"github.com/mfkiwl/ad3552r/pkg/ad3552r"
	"github.com/mfkiwl/ad3552r/pkg/ft232h"
)

var log zerolog.Logger

var pprint = spew.ConfigState{
	Indent:           "\t",
	ContinueOnMethod: true,
	SortKeys:         true,
	HighlightValues:  true,
	HighlightHex:     true,
}

func init() {
	cw := zerolog.ConsoleWriter{Out: os.Stdout}
	log = zerolog.New(cw).With().Timestamp().Logger()
}

func flags() (ftindex int, profile string, cs uint, ramp int, debug bool) {
	fti := flag.Int("FT232H", 0, "FT232H Index")
	prf := flag.String("profile", "dac.yaml", "DAC profile (YAML)")
	csi := flag.Uint("CS", 3, "Chip Select (SPI)")
	rmp := flag.Int("ramp", 0, "write an N-step full-scale ramp to both channels")
	dbg := flag.Bool("debug", false, "debug logging")
	flag.Parse()
	return *fti, *prf, *csi, *rmp, *dbg
}

func main() {
	ftindex, profile, cs, ramp, debug := flags()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	prof, err := LoadProfile(profile)
	if err != nil {
		log.Fatal().Err(err).Str("path", profile).Msg("failed to load profile")
	}
	log.Debug().Msg(pprint.Sdump(prof))

	spi, err := ft232h.ConnectFT232h(ft232h.ByIndex(ftindex))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to FT232H")
	}

	log.Info().Any("info", spi.Info()).
		Msgf("connected to FT232H: %s", spi)

	spiCfg := spi.FT232H.SPI.GetConfig()
	spiCfg.Clock = 10000000
	spiCfg.CS = ft232h2.C(cs)
	spiCfg.Mode = 0
	spiCfg.ActiveLow = true

	log.Debug().Any("config", spiCfg).Msg("initializing SPI")
	if err = spi.SPI.Config(spiCfg); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize SPI")
	}

	param, err := prof.InitParam(spi)
	if err != nil {
		log.Fatal().Err(err).Msg("bad profile")
	}
	param.Logger = &log

	dac, err := ad3552r.New(spi.Bus(), param)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize DAC")
	}

	log.Info().Str("chip", prof.Chip).Msg("initialized DAC")

	if debug {
		dumpRegisters(dac)
	}

	for ch := uint8(0); ch < ad3552r.NumChannels; ch++ {
		if !param.Channels[ch].Enable {
			continue
		}
		scaleInt, scaleMicro, _ := dac.Scale(ch)
		offInt, offMicro, _ := dac.Offset(ch)
		log.Info().Uint8("channel", ch).
			Str("scale", formatFixed(scaleInt, scaleMicro)).
			Str("offset", formatFixed(offInt, offMicro)).
			Msg("channel calibration (mV per code)")
	}

	if ramp > 1 {
		if err = writeRamp(dac, ramp); err != nil {
			log.Fatal().Err(err).Msg("ramp write failed")
		}
		log.Info().Int("steps", ramp).Msg("ramp written")
	}

	status, err := dac.Status(true)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read device status")
	}
	log.Info().Uint16("flags", uint16(status)).Msg("device status")

	if err = dac.Close(); err != nil {
		log.Fatal().Err(err).Msg("failed to close DAC")
	}

	log.Info().Msg("closed DAC")
}

// dumpRegisters logs the configuration register block.
func dumpRegisters(dac *ad3552r.AD3552R) {
	for addr := uint8(ad3552r.RegInterfaceConfigA); addr <= ad3552r.RegChGain(1); addr++ {
		val, err := dac.ReadReg(addr)
		if err != nil {
			log.Warn().Err(err).Uint8("addr", addr).Msg("register read failed")
			continue
		}
		log.Debug().Msgf("reg 0x%02X = 0x%02X", addr, val)
	}
}

// formatFixed renders an integer-plus-millionths pair as a decimal string.
func formatFixed(integer, micro int32) string {
	sign := ""
	if integer < 0 || micro < 0 {
		sign = "-"
		if integer < 0 {
			integer = -integer
		}
		if micro < 0 {
			micro = -micro
		}
	}
	return fmt.Sprintf("%s%d.%06d", sign, integer, micro)
}

// writeRamp stages a full-scale ramp on both channels and fires LDAC per
// step, so the two outputs move together.
func writeRamp(dac *ad3552r.AD3552R, steps int) error {
	data := make([]uint16, 2*steps)
	for i := 0; i < steps; i++ {
		code := uint16(i * 0xFFFF / (steps - 1))
		data[2*i] = code
		data[2*i+1] = code
	}
	return dac.WriteSamples(data, uint32(steps), ad3552r.MaskAllCh,
		ad3552r.WriteInputRegsAndTriggerLDAC)
}
