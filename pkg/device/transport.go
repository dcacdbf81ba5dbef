package device

import (
	"fmt"

	hid "github.com/sstallion/go-hid"
)

// Transport is the feature-report I/O boundary between the engine and a
// physical device. It is an interface so the sync and read paths can be
// exercised against a fake in tests. Transport errors propagate to callers
// unmodified; the core does not retry.
type Transport interface {
	// GetFeatureReport reads a feature report by ID and returns its payload
	// without the leading report ID byte.
	GetFeatureReport(reportID byte, length int) ([]byte, error)

	// SendFeatureReport sends a feature report; data[0] carries the command
	// selector, which doubles as the report ID.
	SendFeatureReport(data []byte) (int, error)

	// Read performs an interrupt read into b.
	Read(b []byte) (int, error)

	Close() error
}

// hidTransport adapts a HID device handle to the Transport interface.
type hidTransport struct {
	dev *hid.Device
}

func (t *hidTransport) GetFeatureReport(reportID byte, length int) ([]byte, error) {
	buf := make([]byte, length+1)
	buf[0] = reportID
	n, err := t.dev.GetFeatureReport(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature report %d: %w", reportID, err)
	}
	if n < 1 {
		return nil, ErrShortRead
	}
	// The returned buffer starts with the report ID byte.
	return buf[1:n], nil
}

func (t *hidTransport) SendFeatureReport(data []byte) (int, error) {
	n, err := t.dev.SendFeatureReport(data)
	if err != nil {
		return n, fmt.Errorf("failed to send feature report: %w", err)
	}
	return n, nil
}

func (t *hidTransport) Read(b []byte) (int, error) {
	n, err := t.dev.Read(b)
	if err != nil {
		return n, fmt.Errorf("failed to read from device: %w", err)
	}
	return n, nil
}

func (t *hidTransport) Close() error {
	return t.dev.Close()
}
