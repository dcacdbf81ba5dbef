package gpsdo

// Output channel selectors (bit flags, also used by the OUTPUT and IDENTIFY
// register commands)
const (
	Output1 = 0x01
	Output2 = 0x02
)

// Drive level codes
const (
	Level8mA  = 0
	Level16mA = 1
	Level24mA = 2
	Level32mA = 3
)

// LevelDisplay maps a drive level code to its display name.
var LevelDisplay = map[int]string{
	Level8mA:  "8 mA",
	Level16mA: "16 mA",
	Level24mA: "24 mA",
	Level32mA: "32 mA",
}

// levelFromMilliamps maps a drive current in mA to its register code.
var levelFromMilliamps = map[int]int{
	8:  Level8mA,
	16: Level16mA,
	24: Level24mA,
	32: Level32mA,
}

// Reference input frequency limits.
//    8 kHz .. 710 MHz according to table 26 in Si53xx family reference manual
//    2 kHz .. 710 MHz according to table 3 in Si5328 datasheet
// 0.25 Hz  ..  10 MHz according to u-blox MAX-M8Q datasheet
//   10 kHz ..  16 MHz by trial (lower limit set by f3)
const (
	LimitFinMin = 10000
	LimitFinMax = 16000000
)

// Phase detector frequency limits.
//  2 kHz .. 2 MHz according to table 26 in Si53xx family reference manual
// 10 kHz .. 2 MHz by trial
const (
	LimitF3Min = 10000
	LimitF3Max = 2000000
)

// Oscillator frequency limits according to table 26 in the Si53xx family
// reference manual.
const (
	LimitFoscMin = 4850000000
	LimitFoscMax = 5670000000
)

// Output frequency limits. The range is not defined consistently:
//
//   8 kHz .. 808.0 MHz according to table 3 in Si5328 datasheet (model C)
//   8 kHz .. 212.5 MHz according to table 3 in Si5328 datasheet (CMOS output)
//   2 kHz .. 808.0 MHz according to table 26 in Si53xx family reference manual
// 450 Hz  .. 800.0 MHz according to Leo Bodnar datasheet
//
// We choose 450 Hz .. 808 MHz.
const (
	LimitFoutMin = 450
	LimitFoutMax = 808000000
)
