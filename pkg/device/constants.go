package device

// USB device identifiers. The GPSDO enumerates as one of two products
// depending on the hardware revision.
const (
	VendorID = 0x1DD2

	ProductIDSingle = 0x2210 // single output GPSDO
	ProductIDDual   = 0x2211 // dual output GPSDO
)

// usbIDs lists every VID/PID pair recognized as a GPSDO.
var usbIDs = [][2]uint16{
	{VendorID, ProductIDSingle},
	{VendorID, ProductIDDual},
}

// Status byte flags (second byte of the status read, active low).
const (
	statusFlagSatUnlocked = 0x01
	statusFlagPLLUnlocked = 0x02
)
