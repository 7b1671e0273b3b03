package panel

import (
	"fmt"

	"github.com/five82/lightpanel/internal/device"
)

// Element ids of the settings page.
const (
	IDDeviceName   = "deviceName"
	IDNetName      = "espnowNetName"
	IDVersion      = "version"
	IDFirmware     = "firmware"
	IDLEDType      = "ledTypeSelect"
	IDColdWhitePin = "coldWhitePinSelect"
	IDWarmWhitePin = "warmWhitePinSelect"
	IDRedPin       = "redPinSelect"
	IDGreenPin     = "greenPinSelect"
	IDBluePin      = "bluePinSelect"
)

// Binding copies the value of the Source element into the Target control.
type Binding struct {
	Target string
	Source string
}

// SelectBindings pairs each select control with the hidden input carrying
// the node's stored value.
var SelectBindings = []Binding{
	{Target: IDLEDType, Source: device.KeyLEDType},
	{Target: IDColdWhitePin, Source: device.KeyColdWhitePin},
	{Target: IDWarmWhitePin, Source: device.KeyWarmWhitePin},
	{Target: IDRedPin, Source: device.KeyRedPin},
	{Target: IDGreenPin, Source: device.KeyGreenPin},
	{Target: IDBluePin, Source: device.KeyBluePin},
}

// Populate fills the page controls after substitution: the version display
// takes the firmware value and each select takes its stored value. The first
// missing element aborts population.
func Populate(doc *Document) error {
	firmware, err := doc.Value(IDFirmware)
	if err != nil {
		return fmt.Errorf("populate version: %w", err)
	}
	if err := doc.SetText(IDVersion, firmware); err != nil {
		return fmt.Errorf("populate version: %w", err)
	}
	for _, b := range SelectBindings {
		value, err := doc.Value(b.Source)
		if err != nil {
			return fmt.Errorf("populate %s: %w", b.Target, err)
		}
		if err := doc.SetValue(b.Target, value); err != nil {
			return fmt.Errorf("populate %s: %w", b.Target, err)
		}
	}
	return nil
}

// Render runs the full page load: substitute placeholders, parse the result,
// populate the controls and serialize the document.
func Render(markup string, resp device.ConfigResponse) (string, error) {
	doc, err := Load(markup, resp)
	if err != nil {
		return "", err
	}
	return doc.Render()
}

// Load substitutes resp into markup and returns the populated document.
func Load(markup string, resp device.ConfigResponse) (*Document, error) {
	doc, err := Parse(Substitute(markup, resp))
	if err != nil {
		return nil, err
	}
	if err := Populate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
