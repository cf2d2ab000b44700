package fenixv24

import (
	"fmt"
	"strings"
)

// Mode is a vendor operating-mode code. The codes are opaque vendor data;
// values not in the table below are carried through unchanged and render
// as "Unknown(n)". Codes 11, 13 and 15 have been observed in the wild but
// their meaning is unconfirmed, so they are deliberately left unmapped.
type Mode int

const (
	ModeManual     Mode = 0
	ModeOff        Mode = 1
	ModeAntifreeze Mode = 2
	ModeAuto       Mode = 8
	ModeBoost      Mode = 16
)

var modeNames = map[Mode]string{
	ModeManual:     "Manual",
	ModeOff:        "Off",
	ModeAntifreeze: "Antifreeze",
	ModeAuto:       "Auto",
	ModeBoost:      "Boost",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(m))
}

// ParseMode maps a mode name (case-insensitive) back to its code.
func ParseMode(name string) (Mode, error) {
	for mode, label := range modeNames {
		if strings.EqualFold(name, label) {
			return mode, nil
		}
	}
	return 0, &ValidationError{Param: "mode", Msg: fmt.Sprintf("unknown mode %q", name)}
}

// Setpoint identifies which per-mode target temperature a value belongs to.
type Setpoint string

const (
	SetpointManual     Setpoint = "manual"
	SetpointEco        Setpoint = "eco"
	SetpointComfort    Setpoint = "comfort"
	SetpointAntifreeze Setpoint = "antifreeze"
	SetpointBoost      Setpoint = "boost"
)

// setpointFields maps each setpoint kind to its field name on the vendor
// push endpoint ("consigne" is French for setpoint).
var setpointFields = map[Setpoint]string{
	SetpointManual:     "consigne_manuel",
	SetpointEco:        "consigne_eco",
	SetpointComfort:    "consigne_confort",
	SetpointAntifreeze: "consigne_hg",
	SetpointBoost:      "consigne_boost",
}

// modeSetpoints maps a target mode to the setpoint field that accompanies
// it in a push command. Modes without an entry (Off, Auto) take no setpoint.
var modeSetpoints = map[Mode]Setpoint{
	ModeManual:     SetpointManual,
	ModeAntifreeze: SetpointAntifreeze,
	ModeBoost:      SetpointBoost,
}
