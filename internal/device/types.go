package device

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Keys of the configuration document served by a light node.
const (
	KeyFirmware     = "firmware"
	KeyVersion      = "version"
	KeyNetName      = "espnowNetName"
	KeyDeviceName   = "deviceName"
	KeyLEDType      = "ledType"
	KeyColdWhitePin = "coldWhitePin"
	KeyWarmWhitePin = "warmWhitePin"
	KeyRedPin       = "redPin"
	KeyGreenPin     = "greenPin"
	KeyBluePin      = "bluePin"
)

// Field is one key/value pair of a configuration response.
type Field struct {
	Key   string
	Value string
}

// ConfigResponse is the decoded /config document. Fields keep the order in
// which they appeared in the JSON object; values are kept in textual form.
type ConfigResponse struct {
	fields []Field
	index  map[string]int
}

// NewConfigResponse builds a response from fields in the given order. A
// repeated key replaces the earlier value but keeps its position.
func NewConfigResponse(fields ...Field) ConfigResponse {
	var c ConfigResponse
	for _, f := range fields {
		c.set(f.Key, f.Value)
	}
	return c
}

// Fields returns a copy of the fields in document order.
func (c ConfigResponse) Fields() []Field {
	if len(c.fields) == 0 {
		return nil
	}
	out := make([]Field, len(c.fields))
	copy(out, c.fields)
	return out
}

// Get returns the value stored for key.
func (c ConfigResponse) Get(key string) (string, bool) {
	i, ok := c.index[key]
	if !ok {
		return "", false
	}
	return c.fields[i].Value, true
}

// Len reports the number of fields.
func (c ConfigResponse) Len() int {
	return len(c.fields)
}

// Firmware returns the firmware version, accepting either key a node may use.
func (c ConfigResponse) Firmware() string {
	if v, ok := c.Get(KeyFirmware); ok {
		return v
	}
	v, _ := c.Get(KeyVersion)
	return v
}

func (c *ConfigResponse) set(key, value string) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[key]; ok {
		c.fields[i].Value = value
		return
	}
	c.index[key] = len(c.fields)
	c.fields = append(c.fields, Field{Key: key, Value: value})
}

// UnmarshalJSON decodes a JSON object while preserving key order.
func (c *ConfigResponse) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("config response is not a JSON object")
	}

	var out ConfigResponse
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		value, err := textValue(raw)
		if err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		out.set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}

func textValue(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return string(trimmed), nil
	}
}

// RestartNotice is shown to the operator after every save attempt. The node
// applies new settings only after a restart.
const RestartNotice = "Please restart device for changes apply."

// Settings is the form state submitted to /setting. Values are passed through
// as entered; the panel does not validate them.
type Settings struct {
	DeviceName   string
	NetName      string
	LEDType      string
	ColdWhitePin string
	WarmWhitePin string
	RedPin       string
	GreenPin     string
	BluePin      string
}

// SettingsFromConfig copies the editable values out of a configuration response.
func SettingsFromConfig(c ConfigResponse) Settings {
	get := func(key string) string {
		v, _ := c.Get(key)
		return v
	}
	return Settings{
		DeviceName:   get(KeyDeviceName),
		NetName:      get(KeyNetName),
		LEDType:      get(KeyLEDType),
		ColdWhitePin: get(KeyColdWhitePin),
		WarmWhitePin: get(KeyWarmWhitePin),
		RedPin:       get(KeyRedPin),
		GreenPin:     get(KeyGreenPin),
		BluePin:      get(KeyBluePin),
	}
}

// Params returns the /setting parameters in submission order.
func (s Settings) Params() []Field {
	return []Field{
		{Key: KeyDeviceName, Value: s.DeviceName},
		{Key: KeyNetName, Value: s.NetName},
		{Key: KeyLEDType, Value: s.LEDType},
		{Key: KeyColdWhitePin, Value: s.ColdWhitePin},
		{Key: KeyWarmWhitePin, Value: s.WarmWhitePin},
		{Key: KeyRedPin, Value: s.RedPin},
		{Key: KeyGreenPin, Value: s.GreenPin},
		{Key: KeyBluePin, Value: s.BluePin},
	}
}

// Query encodes the settings as the /setting query string. Parameter order is
// fixed and values are percent-encoded, with spaces as %20.
func (s Settings) Query() string {
	var b strings.Builder
	for i, p := range s.Params() {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(escapeValue(p.Value))
	}
	return b.String()
}

func escapeValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
