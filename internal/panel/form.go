package panel

import (
	"fmt"

	"github.com/five82/lightpanel/internal/device"
)

// ReadSettings reads the current form state of doc.
func ReadSettings(doc *Document) (device.Settings, error) {
	var s device.Settings
	fields := []struct {
		id   string
		dest *string
	}{
		{IDDeviceName, &s.DeviceName},
		{IDNetName, &s.NetName},
		{IDLEDType, &s.LEDType},
		{IDColdWhitePin, &s.ColdWhitePin},
		{IDWarmWhitePin, &s.WarmWhitePin},
		{IDRedPin, &s.RedPin},
		{IDGreenPin, &s.GreenPin},
		{IDBluePin, &s.BluePin},
	}
	for _, f := range fields {
		v, err := doc.Value(f.id)
		if err != nil {
			return device.Settings{}, fmt.Errorf("read form: %w", err)
		}
		*f.dest = v
	}
	return s, nil
}

// ApplySettings writes s into the form controls of doc.
func ApplySettings(doc *Document, s device.Settings) error {
	values := []struct {
		id    string
		value string
	}{
		{IDDeviceName, s.DeviceName},
		{IDNetName, s.NetName},
		{IDLEDType, s.LEDType},
		{IDColdWhitePin, s.ColdWhitePin},
		{IDWarmWhitePin, s.WarmWhitePin},
		{IDRedPin, s.RedPin},
		{IDGreenPin, s.GreenPin},
		{IDBluePin, s.BluePin},
	}
	for _, v := range values {
		if err := doc.SetValue(v.id, v.value); err != nil {
			return fmt.Errorf("apply form: %w", err)
		}
	}
	return nil
}
