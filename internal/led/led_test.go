package led

import (
	"reflect"
	"testing"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"0", TypeNone, false},
		{" 3 ", TypeRGB, false},
		{"rgbww", TypeRGBWW, false},
		{"WW", TypeWW, false},
		{"6", TypeNone, true},
		{"-1", TypeNone, true},
		{"neon", TypeNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseType(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTypeStringAndValue(t *testing.T) {
	if TypeRGBW.String() != "RGBW" || TypeRGBW.Value() != "4" {
		t.Fatalf("TypeRGBW = %q/%q, want RGBW/4", TypeRGBW.String(), TypeRGBW.Value())
	}
	if got := Type(9).String(); got != "Type(9)" {
		t.Fatalf("Type(9).String() = %q", got)
	}
	if len(Types()) != 6 {
		t.Fatalf("Types() len = %d, want 6", len(Types()))
	}
}

func TestMap(t *testing.T) {
	tests := []struct {
		name                             string
		v, inMin, inMax, outMin, outMax int
		want                             int
	}{
		{"identity", 128, 0, 255, 0, 255, 128},
		{"scale down", 255, 0, 255, 0, 100, 100},
		{"truncates", 1, 0, 255, 0, 100, 0},
		{"reversed input range", 153, 500, 153, 0, 255, 255},
		{"reversed input range warm end", 500, 500, 153, 0, 255, 0},
		{"degenerate range", 10, 5, 5, 7, 9, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Map(tt.v, tt.inMin, tt.inMax, tt.outMin, tt.outMax); got != tt.want {
				t.Fatalf("Map = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOutputs_Off(t *testing.T) {
	s := State{
		Type:   TypeRGBWW,
		Wiring: Wiring{ColdWhite: 4, WarmWhite: 5, Red: 12, Green: 13, Blue: 14},
	}
	want := []Output{
		{Channel: ChannelCold, Pin: 4},
		{Channel: ChannelWarm, Pin: 5},
		{Channel: ChannelRed, Pin: 12},
		{Channel: ChannelGreen, Pin: 13},
		{Channel: ChannelBlue, Pin: 14},
	}
	if got := Outputs(s); !reflect.DeepEqual(got, want) {
		t.Fatalf("Outputs = %#v, want %#v", got, want)
	}
}

func TestOutputs_WhiteOnSingleChannel(t *testing.T) {
	s := State{
		Type: TypeW, On: true, Brightness: 200,
		Red: 255, Green: 255, Blue: 255,
		Wiring: Wiring{ColdWhite: 4},
	}
	want := []Output{{Channel: ChannelCold, Pin: 4, Analog: true, Level: 200}}
	if got := Outputs(s); !reflect.DeepEqual(got, want) {
		t.Fatalf("Outputs = %#v, want %#v", got, want)
	}
}

func TestOutputs_WhiteMixSplitsByTemperature(t *testing.T) {
	s := State{
		Type: TypeWW, On: true, Brightness: 255, Temperature: 500,
		Red: 255, Green: 255, Blue: 255,
		Wiring: Wiring{ColdWhite: 4, WarmWhite: 5},
	}
	want := []Output{
		{Channel: ChannelCold, Pin: 4, Analog: true, Level: 0},
		{Channel: ChannelWarm, Pin: 5, Analog: true, Level: 255},
	}
	if got := Outputs(s); !reflect.DeepEqual(got, want) {
		t.Fatalf("Outputs = %#v, want %#v", got, want)
	}
}

func TestOutputs_WhiteOnRGBWTurnsColourOff(t *testing.T) {
	s := State{
		Type: TypeRGBW, On: true, Brightness: 100,
		Red: 255, Green: 255, Blue: 255,
		Wiring: Wiring{ColdWhite: 4, Red: 12, Green: 13, Blue: 14},
	}
	want := []Output{
		{Channel: ChannelCold, Pin: 4, Analog: true, Level: 100},
		{Channel: ChannelRed, Pin: 12},
		{Channel: ChannelGreen, Pin: 13},
		{Channel: ChannelBlue, Pin: 14},
	}
	if got := Outputs(s); !reflect.DeepEqual(got, want) {
		t.Fatalf("Outputs = %#v, want %#v", got, want)
	}
}

func TestOutputs_ColourOnRGBWTurnsWhiteOff(t *testing.T) {
	s := State{
		Type: TypeRGBW, On: true, Brightness: 255,
		Red: 255, Green: 0, Blue: 51,
		Wiring: Wiring{ColdWhite: 4, Red: 12, Green: 13, Blue: 14},
	}
	want := []Output{
		{Channel: ChannelCold, Pin: 4},
		{Channel: ChannelRed, Pin: 12, Analog: true, Level: 255},
		{Channel: ChannelGreen, Pin: 13, Analog: true, Level: 0},
		{Channel: ChannelBlue, Pin: 14, Analog: true, Level: 51},
	}
	if got := Outputs(s); !reflect.DeepEqual(got, want) {
		t.Fatalf("Outputs = %#v, want %#v", got, want)
	}
}

func TestOutputs_SkipsUnassignedPins(t *testing.T) {
	s := State{Type: TypeRGB, On: true, Brightness: 255, Red: 10, Green: 20, Blue: 30}
	if got := Outputs(s); len(got) != 0 {
		t.Fatalf("Outputs = %#v, want none for unwired pins", got)
	}
}
