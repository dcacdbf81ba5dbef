// gpsdoctl: configuration utility for Leo Bodnar GPSDO clock generators.
//
// The tool reads and writes the device's frequency-synthesis configuration
// over USB HID, validates frequency plans against the datasheet limits, and
// backs up or restores configurations as JSON files.
package main

import (
	"errors"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lbtools/gpsdoctl/pkg/config"
	"github.com/lbtools/gpsdoctl/pkg/device"
	"github.com/lbtools/gpsdoctl/pkg/gpsdo"
)

var cli struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	List     ListCmd     `cmd:"" aliases:"l" help:"List devices"`
	Status   StatusCmd   `cmd:"" aliases:"s" help:"Show lock status of a device"`
	Detail   DetailCmd   `cmd:"" aliases:"d" help:"Show details of a device"`
	Modify   ModifyCmd   `cmd:"" aliases:"m" help:"Change configuration of a single device"`
	Backup   BackupCmd   `cmd:"" aliases:"b" help:"Save configuration of a device"`
	Restore  RestoreCmd  `cmd:"" aliases:"r" help:"Restore configuration of a device"`
	Identify IdentifyCmd `cmd:"" aliases:"i" help:"Identify output channel of a device"`
	Analyze  AnalyzeCmd  `cmd:"" aliases:"a" help:"Analyze a configuration"`
	PLL      PLLCmd      `cmd:"" name:"pll" aliases:"p" help:"Show PLL diagram"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("gpsdoctl"),
		kong.Description("Configuration utility for Leo Bodnar GPSDO clock generators"))

	if cli.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	ctx.FatalIfErrorf(ctx.Run())
}

// deviceFlags select a device by serial number and/or HID path.
type deviceFlags struct {
	Serial string `short:"s" placeholder:"S/N" help:"Serial number of the GPSDO"`
	Device string `short:"d" placeholder:"PATH" help:"Path specification of the USB HID device"`
}

// settingsFlags carry a partial configuration from the command line.
type settingsFlags struct {
	Fin         *int `placeholder:"HZ" help:"GPS reference frequency"`
	N3          *int `placeholder:"N" help:"Input divider factor"`
	N2Hs        *int `name:"n2-hs" placeholder:"N" help:"Feedback divider factor (high speed)"`
	N2Ls        *int `name:"n2-ls" placeholder:"N" help:"Feedback divider factor (low speed)"`
	N1Hs        *int `name:"n1-hs" placeholder:"N" help:"Output divider factor (high speed)"`
	Nc1Ls       *int `name:"nc1-ls" placeholder:"N" help:"Output 1 divider factor (low speed)"`
	Nc2Ls       *int `name:"nc2-ls" placeholder:"N" help:"Output 2 divider factor (low speed)"`
	Skew        *int `placeholder:"N" help:"Output 2 clock skew"`
	Bw          *int `placeholder:"MODE" help:"Bandwidth mode"`
	Level       *int `placeholder:"CURRENT" help:"Output drive level in mA (8, 16, 24 or 32)"`
	EnableOut1  bool `help:"Enable output 1"`
	DisableOut1 bool `help:"Disable output 1"`
	EnableOut2  bool `help:"Enable output 2"`
	DisableOut2 bool `help:"Disable output 2"`
}

// partial translates the flags into a settings update.
func (f *settingsFlags) partial() (gpsdo.Partial, error) {
	p := gpsdo.Partial{
		Fin:   f.Fin,
		N3:    f.N3,
		N2HS:  f.N2Hs,
		N2LS:  f.N2Ls,
		N1HS:  f.N1Hs,
		NC1LS: f.Nc1Ls,
		NC2LS: f.Nc2Ls,
		Skew:  f.Skew,
		BW:    f.Bw,
	}

	if f.Level != nil {
		level, ok := gpsdo.LevelFromMilliamps(*f.Level)
		if !ok {
			return p, fmt.Errorf("invalid drive level %d mA (must be 8, 16, 24 or 32)", *f.Level)
		}
		p.Level = &level
	}

	t, n := true, false
	if f.EnableOut1 {
		p.Out1 = &t
	}
	if f.DisableOut1 {
		p.Out1 = &n
	}
	if f.EnableOut2 {
		p.Out2 = &t
	}
	if f.DisableOut2 {
		p.Out2 = &n
	}

	return p, nil
}

// reportParameterError prints an aggregated field error map the way the
// validation layer produces it and swallows the error; any other error is
// passed through for the normal fatal path.
func reportParameterError(err error) error {
	var cfgErr *gpsdo.ConfigError
	var planErr *gpsdo.PlanError
	if errors.As(err, &cfgErr) || errors.As(err, &planErr) {
		fmt.Print("Parameter error:\n")
		fmt.Print(err.Error())
		return nil
	}
	return err
}

type ListCmd struct{}

func (c *ListCmd) Run() error {
	found, err := device.Enumerate()
	if err != nil {
		return err
	}
	for _, d := range found {
		fmt.Printf("%04x:%04x %-16s  %s  %s\n",
			d.VendorID, d.ProductID, d.Path, d.Serial, d.Product)
	}
	return nil
}

type StatusCmd struct {
	deviceFlags
}

func (c *StatusCmd) Run() error {
	devices, err := device.OpenAll(c.Serial, c.Device)
	if err != nil {
		return err
	}

	for _, d := range devices {
		defer d.Close()

		status, err := d.ReadStatus()
		if err != nil {
			return err
		}
		fmt.Printf("%-8s  %s: SAT %-8s  PLL %-8s  Loss: %d\n",
			d.Info.Serial, d.Info.Path,
			lockWord(status.SatLock), lockWord(status.PLLLock),
			status.LossCount)
	}
	return nil
}

func lockWord(locked bool) string {
	if locked {
		return "locked"
	}
	return "unlocked"
}

type DetailCmd struct {
	deviceFlags
}

func (c *DetailCmd) Run() error {
	devices, err := device.OpenAll(c.Serial, c.Device)
	if err != nil {
		return err
	}

	for i, d := range devices {
		defer d.Close()

		if _, err := d.Read(true); err != nil {
			return err
		}
		if i > 0 {
			fmt.Print("\n\n")
		}
		fmt.Print(d.InfoText(true, true))
	}
	return nil
}

type ModifyCmd struct {
	deviceFlags
	settingsFlags
	Pretend          bool `short:"p" help:"Don't modify device configuration"`
	ShowStatus       bool `short:"S" help:"Show device status"`
	ShowFreq         bool `short:"F" help:"Show frequency plan"`
	IgnoreFreqLimits bool `help:"Ignore frequency limits specified in the datasheet"`
}

func (c *ModifyCmd) Run() error {
	p, err := c.partial()
	if err != nil {
		return err
	}

	d, err := device.Open(c.Serial, c.Device)
	if err != nil {
		return err
	}
	defer d.Close()

	if _, err := d.Read(true); err != nil {
		return err
	}
	if err := d.Settings.Update(p); err != nil {
		return reportParameterError(err)
	}

	fmt.Print(d.InfoText(c.ShowStatus, c.ShowFreq))

	if c.Pretend {
		log.Debug("pretend mode, skipping device write")
		return nil
	}
	if err := d.Write(false, c.IgnoreFreqLimits); err != nil {
		return reportParameterError(err)
	}
	return nil
}

type BackupCmd struct {
	deviceFlags
	ShowStatus       bool   `short:"S" help:"Show device status"`
	ShowFreq         bool   `short:"F" help:"Show frequency plan"`
	IgnoreFreqLimits bool   `help:"Ignore frequency limits specified in the datasheet"`
	Output           string `short:"o" required:"" placeholder:"FILE" help:"Output configuration file"`
}

func (c *BackupCmd) Run() error {
	d, err := device.Open(c.Serial, c.Device)
	if err != nil {
		return err
	}
	defer d.Close()

	if _, err := d.Read(true); err != nil {
		return err
	}
	fmt.Print(d.InfoText(c.ShowStatus, c.ShowFreq))

	backup, err := config.FromSettings(d.Settings, d.Info.Serial, d.Info.Product, c.IgnoreFreqLimits)
	if err != nil {
		return reportParameterError(err)
	}
	if err := config.SaveToFile(backup, c.Output); err != nil {
		return err
	}
	log.Debugf("configuration saved to %s", c.Output)
	return nil
}

type RestoreCmd struct {
	deviceFlags
	Pretend          bool   `short:"p" help:"Don't modify device configuration"`
	ShowFreq         bool   `short:"F" help:"Show frequency plan"`
	IgnoreFreqLimits bool   `help:"Ignore frequency limits specified in the datasheet"`
	Input            string `short:"i" required:"" placeholder:"FILE" help:"Input configuration file"`
}

func (c *RestoreCmd) Run() error {
	d, err := device.Open(c.Serial, c.Device)
	if err != nil {
		return err
	}
	defer d.Close()

	backup, err := config.LoadFromFile(c.Input)
	if err != nil {
		return err
	}
	if err := backup.Restore(d.Settings); err != nil {
		return reportParameterError(err)
	}

	fmt.Print(d.InfoText(false, c.ShowFreq))

	if c.Pretend {
		log.Debug("pretend mode, skipping device write")
		return nil
	}
	if err := d.Write(false, c.IgnoreFreqLimits); err != nil {
		return reportParameterError(err)
	}
	return nil
}

type IdentifyCmd struct {
	deviceFlags
	Off  bool `help:"Disable identification" xor:"channel" required:""`
	Out1 bool `help:"Channel 1" xor:"channel" required:""`
	Out2 bool `help:"Channel 2" xor:"channel" required:""`
}

func (c *IdentifyCmd) Run() error {
	d, err := device.Open(c.Serial, c.Device)
	if err != nil {
		return err
	}
	defer d.Close()

	channel := 0
	switch {
	case c.Out1:
		channel = gpsdo.Output1
	case c.Out2:
		channel = gpsdo.Output2
	}
	return d.Identify(channel)
}

type AnalyzeCmd struct {
	deviceFlags
	settingsFlags
	InputFile        string `short:"i" placeholder:"FILE" xor:"input" help:"Input configuration file"`
	InputDevice      bool   `short:"I" xor:"input" help:"Read configuration from device"`
	OutputFile       string `short:"o" placeholder:"FILE" xor:"output" help:"Output configuration file"`
	OutputDevice     bool   `short:"O" xor:"output" help:"Write configuration to device"`
	IgnoreFreqLimits bool   `help:"Ignore frequency limits specified in the datasheet"`
}

func (c *AnalyzeCmd) Run() error {
	p, err := c.partial()
	if err != nil {
		return err
	}

	// A device is only opened when the analysis reads from or writes to
	// hardware; otherwise the configuration is purely virtual.
	var d *device.Device
	settings := gpsdo.NewSettings()
	if c.InputDevice || c.OutputDevice {
		d, err = device.Open(c.Serial, c.Device)
		if err != nil {
			return err
		}
		defer d.Close()
		settings = d.Settings
	}

	switch {
	case c.InputDevice:
		if _, err := d.Read(true); err != nil {
			return err
		}
	case c.InputFile != "":
		backup, err := config.LoadFromFile(c.InputFile)
		if err != nil {
			return err
		}
		if err := backup.Restore(settings); err != nil {
			return reportParameterError(err)
		}
	}

	if err := settings.Update(p); err != nil {
		return reportParameterError(err)
	}

	fmt.Print(settings.InfoText())

	switch {
	case c.OutputDevice:
		if err := d.Write(false, c.IgnoreFreqLimits); err != nil {
			return reportParameterError(err)
		}
	case c.OutputFile != "":
		serial, product := "", ""
		if d != nil {
			serial, product = d.Info.Serial, d.Info.Product
		}
		backup, err := config.FromSettings(settings, serial, product, c.IgnoreFreqLimits)
		if err != nil {
			return reportParameterError(err)
		}
		if err := config.SaveToFile(backup, c.OutputFile); err != nil {
			return err
		}
	}
	return nil
}

type PLLCmd struct{}

func (c *PLLCmd) Run() error {
	fmt.Print(gpsdo.PLLText())
	return nil
}
