package device

import "errors"

// Device errors
var (
	// ErrNoDevice indicates no GPSDO matched the selection criteria
	ErrNoDevice = errors.New("no GPSDO device found")

	// ErrMultipleDevices indicates the selection criteria matched more than
	// one device; specify a device path or serial number
	ErrMultipleDevices = errors.New("more than one GPSDO device found")

	// ErrShortRead indicates the device returned fewer bytes than the
	// protocol defines
	ErrShortRead = errors.New("short read from device")
)
