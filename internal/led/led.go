// Package led describes the LED hardware a light node can drive: the strip
// types the firmware knows, the GPIO pins the settings panel offers, and the
// per-pin output the firmware produces for a given light state.
package led

import (
	"fmt"
	"strconv"
	"strings"
)

// Type identifies the LED strip wiring configured on a node.
type Type uint8

const (
	TypeNone Type = iota
	TypeW
	TypeWW
	TypeRGB
	TypeRGBW
	TypeRGBWW
)

var typeNames = map[Type]string{
	TypeNone:  "NONE",
	TypeW:     "W",
	TypeWW:    "WW",
	TypeRGB:   "RGB",
	TypeRGBW:  "RGBW",
	TypeRGBWW: "RGBWW",
}

// Types returns every LED type in firmware order.
func Types() []Type {
	return []Type{TypeNone, TypeW, TypeWW, TypeRGB, TypeRGBW, TypeRGBWW}
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Value returns the numeric form used on the wire.
func (t Type) Value() string {
	return strconv.Itoa(int(t))
}

// ParseType accepts either the numeric wire value or the type name.
func ParseType(value string) (Type, error) {
	trimmed := strings.TrimSpace(value)
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n < 0 || n > int(TypeRGBWW) {
			return TypeNone, fmt.Errorf("led type %d out of range", n)
		}
		return Type(n), nil
	}
	for t, name := range typeNames {
		if strings.EqualFold(name, trimmed) {
			return t, nil
		}
	}
	return TypeNone, fmt.Errorf("unknown led type %q", value)
}

// HasCold reports whether the type drives a cold (or single) white channel.
func (t Type) HasCold() bool {
	return t == TypeW || t == TypeWW || t == TypeRGBW || t == TypeRGBWW
}

// HasWarm reports whether the type drives a warm white channel.
func (t Type) HasWarm() bool {
	return t == TypeWW || t == TypeRGBWW
}

// HasRGB reports whether the type drives red, green and blue channels.
func (t Type) HasRGB() bool {
	return t == TypeRGB || t == TypeRGBW || t == TypeRGBWW
}

// Pins returns the ESP8266 GPIO numbers offered for channel assignment.
// Pin 0 doubles as "unassigned" in the node's stored configuration.
func Pins() []uint8 {
	return []uint8{0, 1, 2, 3, 4, 5, 12, 13, 14, 15, 16}
}

// PinLabel renders a pin for display.
func PinLabel(pin uint8) string {
	return "GPIO" + strconv.Itoa(int(pin))
}
