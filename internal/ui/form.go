package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lightpanel/internal/device"
	"github.com/five82/lightpanel/internal/led"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldChoice
)

type option struct {
	value string
	label string
}

// formField is one row of the settings form: a text input or a select.
type formField struct {
	label string
	key   string
	kind  fieldKind

	input textinput.Model

	options []option
	known   int // options from the catalogue; any beyond are node values
	index   int
}

func (f formField) value() string {
	if f.kind == fieldText {
		return f.input.Value()
	}
	if len(f.options) == 0 {
		return ""
	}
	return f.options[f.index].value
}

// setValue selects the option matching v. A value outside the catalogue is
// kept as an extra option so an untouched field submits what the node sent.
func (f *formField) setValue(v string) {
	if f.kind == fieldText {
		f.input.SetValue(v)
		f.input.CursorEnd()
		return
	}
	f.options = f.options[:f.known:f.known]
	for i, o := range f.options {
		if o.value == v {
			f.index = i
			return
		}
	}
	label := v
	if label == "" {
		label = "(empty)"
	}
	f.options = append(f.options, option{value: v, label: label + " (node value)"})
	f.index = len(f.options) - 1
}

func (f *formField) cycle(delta int) {
	n := len(f.options)
	if f.kind != fieldChoice || n == 0 {
		return
	}
	f.index = ((f.index+delta)%n + n) % n
}

// form holds the editable settings and the values last loaded from the node.
type form struct {
	fields   []formField
	focus    int
	baseline device.Settings
	loaded   bool
}

func newForm() form {
	typeOptions := make([]option, 0, len(led.Types()))
	for _, t := range led.Types() {
		typeOptions = append(typeOptions, option{value: t.Value(), label: t.String()})
	}
	pinOptions := make([]option, 0, len(led.Pins()))
	for _, p := range led.Pins() {
		pinOptions = append(pinOptions, option{value: strconv.Itoa(int(p)), label: led.PinLabel(p)})
	}

	text := func(label, key string) formField {
		in := textinput.New()
		in.Prompt = ""
		// Node values pass through untouched, whatever their length.
		in.CharLimit = 0
		in.Placeholder = label
		return formField{label: label, key: key, kind: fieldText, input: in}
	}
	choice := func(label, key string, opts []option) formField {
		return formField{label: label, key: key, kind: fieldChoice, options: opts, known: len(opts)}
	}

	f := form{fields: []formField{
		text("Device name", device.KeyDeviceName),
		text("ESP-NOW network", device.KeyNetName),
		choice("LED type", device.KeyLEDType, typeOptions),
		choice("Cold white GPIO", device.KeyColdWhitePin, pinOptions),
		choice("Warm white GPIO", device.KeyWarmWhitePin, pinOptions),
		choice("Red GPIO", device.KeyRedPin, pinOptions),
		choice("Green GPIO", device.KeyGreenPin, pinOptions),
		choice("Blue GPIO", device.KeyBluePin, pinOptions),
	}}
	f.applyFocus()
	return f
}

// load replaces the form contents and remembers them as the baseline.
func (f *form) load(s device.Settings) {
	f.set(s)
	f.baseline = f.settings()
	f.loaded = true
}

func (f *form) reset() {
	f.set(f.baseline)
}

func (f *form) set(s device.Settings) {
	for _, p := range s.Params() {
		if field := f.field(p.Key); field != nil {
			field.setValue(p.Value)
		}
	}
}

// settings reads the form state into a submission.
func (f form) settings() device.Settings {
	get := func(key string) string {
		for _, field := range f.fields {
			if field.key == key {
				return field.value()
			}
		}
		return ""
	}
	return device.Settings{
		DeviceName:   get(device.KeyDeviceName),
		NetName:      get(device.KeyNetName),
		LEDType:      get(device.KeyLEDType),
		ColdWhitePin: get(device.KeyColdWhitePin),
		WarmWhitePin: get(device.KeyWarmWhitePin),
		RedPin:       get(device.KeyRedPin),
		GreenPin:     get(device.KeyGreenPin),
		BluePin:      get(device.KeyBluePin),
	}
}

func (f form) dirty() bool {
	return f.loaded && f.settings() != f.baseline
}

func (f *form) field(key string) *formField {
	for i := range f.fields {
		if f.fields[i].key == key {
			return &f.fields[i]
		}
	}
	return nil
}

func (f *form) current() *formField {
	return &f.fields[f.focus]
}

func (f *form) move(delta int) {
	n := len(f.fields)
	f.focus = ((f.focus+delta)%n + n) % n
	f.applyFocus()
}

func (f *form) applyFocus() {
	for i := range f.fields {
		if f.fields[i].kind != fieldText {
			continue
		}
		if i == f.focus {
			f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
}

// update forwards a message to the focused text input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	field := f.current()
	if field.kind != fieldText {
		return nil
	}
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	return cmd
}

// channelUsed reports whether the pin field drives a channel for the
// selected LED type.
func (f form) channelUsed(key string) bool {
	t, err := led.ParseType(f.settings().LEDType)
	if err != nil {
		return true
	}
	switch key {
	case device.KeyColdWhitePin:
		return t.HasCold()
	case device.KeyWarmWhitePin:
		return t.HasWarm()
	case device.KeyRedPin, device.KeyGreenPin, device.KeyBluePin:
		return t.HasRGB()
	}
	return true
}
