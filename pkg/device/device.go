// Package device binds the GPSDO settings model and register codec to a
// physical USB HID device: discovery, status and configuration reads, and
// the diff-and-write policy that re-sends only the register groups that
// changed.
package device

import (
	"fmt"
	"strings"

	hid "github.com/sstallion/go-hid"

	"github.com/lbtools/gpsdoctl/pkg/gpsdo"
	"github.com/lbtools/gpsdoctl/pkg/registers"
)

// Info describes a device's USB identity.
type Info struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Manufacturer string
	Product      string
	Serial       string
	VersionMajor int
	VersionMinor int
}

// Status is the lock state reported by the device.
type Status struct {
	LossCount int  // number of GPS signal losses since power-up
	SatLock   bool // satellite lock
	PLLLock   bool // PLL lock
}

// Device is a GPSDO bound to an open transport, carrying the session's
// settings instance. Not safe for concurrent use; one session per device.
type Device struct {
	Info     Info
	Status   Status
	Settings *gpsdo.Settings

	transport Transport
}

// Enumerate returns the USB identities of all attached GPSDO devices.
func Enumerate() ([]Info, error) {
	var found []Info
	for _, id := range usbIDs {
		err := hid.Enumerate(id[0], id[1], func(info *hid.DeviceInfo) error {
			found = append(found, Info{
				Path:         info.Path,
				VendorID:     info.VendorID,
				ProductID:    info.ProductID,
				Manufacturer: info.MfrStr,
				Product:      info.ProductStr,
				Serial:       info.SerialNbr,
				VersionMajor: int(info.ReleaseNbr >> 8),
				VersionMinor: int(info.ReleaseNbr & 0xFF),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate devices: %w", err)
		}
	}
	return found, nil
}

// Filter returns the identities matching a serial number and/or device path.
// Empty criteria match everything.
func Filter(serial, path string) ([]Info, error) {
	all, err := Enumerate()
	if err != nil {
		return nil, err
	}

	var found []Info
	for _, d := range all {
		if serial != "" && serial != d.Serial {
			continue
		}
		if path != "" && path != d.Path {
			continue
		}
		found = append(found, d)
	}
	return found, nil
}

// Open opens the single device matching the criteria. It fails if no device
// or more than one device matches.
func Open(serial, path string) (*Device, error) {
	found, err := Filter(serial, path)
	if err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, ErrNoDevice
	case 1:
		return openInfo(found[0])
	default:
		return nil, fmt.Errorf("%w (%d matches); specify a device path or serial number", ErrMultipleDevices, len(found))
	}
}

// OpenAll opens every device matching the criteria.
func OpenAll(serial, path string) ([]*Device, error) {
	found, err := Filter(serial, path)
	if err != nil {
		return nil, err
	}

	var devices []*Device
	for _, info := range found {
		d, err := openInfo(info)
		if err != nil {
			for _, open := range devices {
				open.Close()
			}
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, nil
}

func openInfo(info Info) (*Device, error) {
	dev, err := hid.OpenPath(info.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", info.Path, err)
	}
	return New(&hidTransport{dev: dev}, info), nil
}

// New wraps an already-open transport. Used directly by tests; normal
// callers go through Open or OpenAll.
func New(t Transport, info Info) *Device {
	return &Device{
		Info:      info,
		Settings:  gpsdo.NewSettings(),
		transport: t,
	}
}

// Close releases the underlying transport.
func (d *Device) Close() error {
	return d.transport.Close()
}

// String returns a human-readable description of the device.
func (d *Device) String() string {
	return fmt.Sprintf("%s %s (Serial: %s)", d.Info.Manufacturer, d.Info.Product, d.Info.Serial)
}

// ReadStatus reads the lock status from the device and updates Status.
func (d *Device) ReadStatus() (Status, error) {
	buf := make([]byte, registers.StatusReadLen)
	n, err := d.transport.Read(buf)
	if err != nil {
		return Status{}, err
	}
	if n < registers.StatusReadLen {
		return Status{}, ErrShortRead
	}

	// Lock flags are active low.
	d.Status = Status{
		LossCount: int(buf[0]),
		SatLock:   buf[1]&statusFlagSatUnlocked == 0,
		PLLLock:   buf[1]&statusFlagPLLUnlocked == 0,
	}
	return d.Status, nil
}

// ReadConfig reads the configuration register image from the device. With
// update set, the decoded fields are applied to the session settings; either
// way the decoded fields are returned, so a caller can compare the session
// state against the device without touching it.
func (d *Device) ReadConfig(update bool) (*registers.Fields, error) {
	raw, err := d.transport.GetFeatureReport(registers.ConfigReportID, registers.WriteReportLen)
	if err != nil {
		return nil, err
	}

	fields, err := registers.DecodeConfig(raw)
	if err != nil {
		return nil, err
	}

	if update {
		if err := d.Settings.Update(fields.Partial()); err != nil {
			return nil, fmt.Errorf("device reported invalid configuration: %w", err)
		}
	}
	return fields, nil
}

// Read reads status and configuration in one call.
func (d *Device) Read(update bool) (*registers.Fields, error) {
	if _, err := d.ReadStatus(); err != nil {
		return nil, err
	}
	return d.ReadConfig(update)
}

// Write validates the session settings and uploads them to the device. Only
// register groups that differ from the device's current configuration are
// re-sent, to minimize wear on the device's persistent settings store;
// overwrite forces all three groups. With ignoreFreqLimits set, datasheet
// frequency ranges are not enforced (the skew ceiling still is). Undefined
// dividers of disabled outputs are given defaults first; the write layout
// cannot express "unset".
func (d *Device) Write(overwrite, ignoreFreqLimits bool) error {
	d.Settings.FillUnusedDividers()

	_, report := d.Settings.Evaluate(ignoreFreqLimits)
	if err := report.Err(); err != nil {
		return err
	}

	desired, err := registers.FromSettings(d.Settings)
	if err != nil {
		return err
	}

	current, err := d.Read(false)
	if err != nil {
		return err
	}

	writes := PlanWrites(current, desired, overwrite)

	if writes.PLL {
		buf, err := desired.EncodePLL()
		if err != nil {
			return err
		}
		if _, err := d.transport.SendFeatureReport(buf); err != nil {
			return err
		}
	}
	if writes.Level {
		buf, err := desired.EncodeLevel()
		if err != nil {
			return err
		}
		if _, err := d.transport.SendFeatureReport(buf); err != nil {
			return err
		}
	}
	if writes.Output {
		if _, err := d.transport.SendFeatureReport(desired.EncodeOutput()); err != nil {
			return err
		}
	}

	return nil
}

// Identify blinks the LED of an output channel. channel is gpsdo.Output1,
// gpsdo.Output2 or 0 to stop blinking.
func (d *Device) Identify(channel int) error {
	_, err := d.transport.SendFeatureReport(registers.EncodeIdentify(byte(channel)))
	return err
}

// InfoText returns device identity, status and the settings info block as
// formatted text. Either section can be suppressed.
func (d *Device) InfoText(showStatus, showFreq bool) string {
	var b strings.Builder

	if showStatus {
		b.WriteString("Device information\n")
		b.WriteString("------------------\n")
		fmt.Fprintf(&b, "VID, PID:     0x%04x:0x%04x\n", d.Info.VendorID, d.Info.ProductID)
		fmt.Fprintf(&b, "Device:       %s\n", d.Info.Path)
		fmt.Fprintf(&b, "Product:      %s\n", d.Info.Product)
		fmt.Fprintf(&b, "Manufacturer: %s\n", d.Info.Manufacturer)
		fmt.Fprintf(&b, "S/N:          %s\n", d.Info.Serial)
		fmt.Fprintf(&b, "Firmware:     %d.%d\n", d.Info.VersionMajor, d.Info.VersionMinor)
		b.WriteString("\n")

		b.WriteString("Device status\n")
		b.WriteString("-------------\n")
		fmt.Fprintf(&b, "Loss count:   %d\n", d.Status.LossCount)
		fmt.Fprintf(&b, "SAT lock:     %s\n", lockText(d.Status.SatLock))
		fmt.Fprintf(&b, "PLL lock:     %s\n", lockText(d.Status.PLLLock))
		b.WriteString("\n")
	}

	if showFreq {
		b.WriteString(d.Settings.InfoText())
	}

	text := strings.Trim(b.String(), "\n")
	if text != "" {
		text += "\n"
	}
	return text
}

func lockText(locked bool) string {
	if locked {
		return "LOCKED"
	}
	return "unlocked"
}
