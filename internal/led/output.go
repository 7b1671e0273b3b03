package led

// Channel names a logical LED channel.
type Channel string

const (
	ChannelCold  Channel = "cold"
	ChannelWarm  Channel = "warm"
	ChannelRed   Channel = "red"
	ChannelGreen Channel = "green"
	ChannelBlue  Channel = "blue"
)

// Wiring maps logical channels to GPIO pins. Zero means unassigned.
type Wiring struct {
	ColdWhite uint8
	WarmWhite uint8
	Red       uint8
	Green     uint8
	Blue      uint8
}

// State is the light state a node applies to its outputs.
type State struct {
	Type        Type
	On          bool
	Brightness  int
	Temperature int // mireds, 153 (cold) to 500 (warm)
	Red         int
	Green       int
	Blue        int
	Wiring      Wiring
}

// Output is the level written to one pin. Analog outputs carry a PWM duty in
// 0..255; digital outputs are always driven low.
type Output struct {
	Channel Channel
	Pin     uint8
	Analog  bool
	Level   int
}

const (
	temperatureCold = 153
	temperatureWarm = 500
)

// Map re-maps value from one range to another with integer arithmetic,
// truncating toward zero.
func Map(value, inMin, inMax, outMin, outMax int) int {
	if inMax == inMin {
		return outMin
	}
	return (value-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}

// Outputs computes the per-pin levels for state. Channels wired to pin 0 are
// omitted.
func Outputs(s State) []Output {
	var out outputs
	w := s.Wiring

	if !s.On {
		if s.Type.HasCold() {
			out.low(ChannelCold, w.ColdWhite)
		}
		if s.Type.HasWarm() {
			out.low(ChannelWarm, w.WarmWhite)
		}
		if s.Type.HasRGB() {
			out.rgbLow(w)
		}
		return out.list
	}

	white := s.Red == 255 && s.Green == 255 && s.Blue == 255
	if white {
		switch s.Type {
		case TypeW, TypeRGBW:
			out.analog(ChannelCold, w.ColdWhite, s.Brightness)
		case TypeWW, TypeRGBWW:
			out.whiteMix(s)
		case TypeRGB:
			out.rgb(s)
		}
		if s.Type == TypeRGBW || s.Type == TypeRGBWW {
			out.rgbLow(w)
		}
		return out.list
	}

	switch s.Type {
	case TypeW:
		out.analog(ChannelCold, w.ColdWhite, s.Brightness)
	case TypeWW:
		out.whiteMix(s)
	case TypeRGBW:
		out.low(ChannelCold, w.ColdWhite)
	case TypeRGBWW:
		out.low(ChannelCold, w.ColdWhite)
		out.low(ChannelWarm, w.WarmWhite)
	}
	if s.Type.HasRGB() {
		out.rgb(s)
	}
	return out.list
}

type outputs struct {
	list []Output
}

func (o *outputs) analog(ch Channel, pin uint8, level int) {
	if pin == 0 {
		return
	}
	o.list = append(o.list, Output{Channel: ch, Pin: pin, Analog: true, Level: level})
}

func (o *outputs) low(ch Channel, pin uint8) {
	if pin == 0 {
		return
	}
	o.list = append(o.list, Output{Channel: ch, Pin: pin})
}

func (o *outputs) whiteMix(s State) {
	coldShare := Map(s.Temperature, temperatureWarm, temperatureCold, 0, 255)
	warmShare := Map(s.Temperature, temperatureCold, temperatureWarm, 0, 255)
	o.analog(ChannelCold, s.Wiring.ColdWhite, Map(s.Brightness, 0, 255, 0, coldShare))
	o.analog(ChannelWarm, s.Wiring.WarmWhite, Map(s.Brightness, 0, 255, 0, warmShare))
}

func (o *outputs) rgb(s State) {
	o.analog(ChannelRed, s.Wiring.Red, Map(s.Red, 0, 255, 0, s.Brightness))
	o.analog(ChannelGreen, s.Wiring.Green, Map(s.Green, 0, 255, 0, s.Brightness))
	o.analog(ChannelBlue, s.Wiring.Blue, Map(s.Blue, 0, 255, 0, s.Brightness))
}

func (o *outputs) rgbLow(w Wiring) {
	o.low(ChannelRed, w.Red)
	o.low(ChannelGreen, w.Green)
	o.low(ChannelBlue, w.Blue)
}
