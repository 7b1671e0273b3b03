package panel

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/five82/lightpanel/internal/device"
)

const testPage = `<!DOCTYPE html>
<html><body>
<h1>{{deviceName}}</h1>
<p>Firmware <span id="version"></span></p>
<input type="hidden" id="firmware" value="{{firmware}}">
<input type="hidden" id="ledType" value="{{ledType}}">
<input type="hidden" id="coldWhitePin" value="{{coldWhitePin}}">
<input type="hidden" id="warmWhitePin" value="{{warmWhitePin}}">
<input type="hidden" id="redPin" value="{{redPin}}">
<input type="hidden" id="greenPin" value="{{greenPin}}">
<input type="hidden" id="bluePin" value="{{bluePin}}">
<input type="text" id="deviceName" value="{{deviceName}}">
<input type="text" id="espnowNetName" value="{{espnowNetName}}">
<select id="ledTypeSelect"><option value="0">NONE</option><option value="1">W</option><option value="3">RGB</option></select>
<select id="coldWhitePinSelect"><option value="0">-</option><option value="4">GPIO4</option></select>
<select id="warmWhitePinSelect"><option value="0">-</option><option value="5">GPIO5</option></select>
<select id="redPinSelect"><option value="0">-</option><option value="12">GPIO12</option></select>
<select id="greenPinSelect"><option value="0">-</option><option value="13">GPIO13</option></select>
<select id="bluePinSelect"><option value="0">-</option><option value="14" selected>GPIO14</option></select>
</body></html>`

func testResponse() device.ConfigResponse {
	return device.NewConfigResponse(
		device.Field{Key: "firmware", Value: "1.11"},
		device.Field{Key: "espnowNetName", Value: "HOME"},
		device.Field{Key: "deviceName", Value: "Porch light"},
		device.Field{Key: "ledType", Value: "3"},
		device.Field{Key: "coldWhitePin", Value: "0"},
		device.Field{Key: "warmWhitePin", Value: "0"},
		device.Field{Key: "redPin", Value: "12"},
		device.Field{Key: "greenPin", Value: "13"},
		device.Field{Key: "bluePin", Value: "0"},
	)
}

func TestSubstitute_ReplacesAllOccurrences(t *testing.T) {
	resp := device.NewConfigResponse(
		device.Field{Key: "version", Value: "1.2"},
		device.Field{Key: "ledType", Value: "RGB"},
	)
	got := Substitute("Version: {{version}}, Type: {{ledType}}", resp)
	if got != "Version: 1.2, Type: RGB" {
		t.Fatalf("Substitute = %q", got)
	}

	got = Substitute("{{ledType}}/{{ledType}}/{{ledType}}", resp)
	if got != "RGB/RGB/RGB" {
		t.Fatalf("Substitute repeated = %q", got)
	}
}

func TestSubstitute_LeavesUnknownPlaceholders(t *testing.T) {
	resp := device.NewConfigResponse(device.Field{Key: "version", Value: "1.2"})
	got := Substitute("{{version}} {{unknownKey}}", resp)
	if got != "1.2 {{unknownKey}}" {
		t.Fatalf("Substitute = %q, want unknown placeholder kept", got)
	}
	if keys := Unresolved(got); !reflect.DeepEqual(keys, []string{"unknownKey"}) {
		t.Fatalf("Unresolved = %v, want [unknownKey]", keys)
	}
}

func TestSubstitute_EmptyResponseKeepsMarkup(t *testing.T) {
	if got := Substitute("<p>{{a}}</p>", device.ConfigResponse{}); got != "<p>{{a}}</p>" {
		t.Fatalf("Substitute = %q, want markup unchanged", got)
	}
}

func TestSubstitute_LiteralKeysAndValues(t *testing.T) {
	resp := device.NewConfigResponse(
		device.Field{Key: "a.b", Value: "$1 $&"},
	)
	got := Substitute("{{a.b}} {{aXb}}", resp)
	if got != "$1 $& {{aXb}}" {
		t.Fatalf("Substitute = %q, want literal key match and literal value", got)
	}
}

func TestSubstitute_FollowsResponseOrder(t *testing.T) {
	// The first value introduces a placeholder that a later key resolves.
	resp := device.NewConfigResponse(
		device.Field{Key: "outer", Value: "[{{inner}}]"},
		device.Field{Key: "inner", Value: "x"},
	)
	if got := Substitute("{{outer}}", resp); got != "[x]" {
		t.Fatalf("Substitute = %q, want [x]", got)
	}

	reversed := device.NewConfigResponse(
		device.Field{Key: "inner", Value: "x"},
		device.Field{Key: "outer", Value: "[{{inner}}]"},
	)
	if got := Substitute("{{outer}}", reversed); got != "[{{inner}}]" {
		t.Fatalf("Substitute = %q, want [{{inner}}]", got)
	}
}

func TestUnresolved_DeduplicatesInOrder(t *testing.T) {
	got := Unresolved("{{b}} {{a}} {{b}} {{ not a key }} {{}}")
	if !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("Unresolved = %v, want [b a]", got)
	}
}

func TestLoad_PopulatesControls(t *testing.T) {
	doc, err := Load(testPage, testResponse())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if got, _ := doc.Text(IDVersion); got != "1.11" {
		t.Fatalf("version text = %q, want 1.11", got)
	}

	settings, err := ReadSettings(doc)
	if err != nil {
		t.Fatalf("ReadSettings returned error: %v", err)
	}
	want := device.Settings{
		DeviceName:   "Porch light",
		NetName:      "HOME",
		LEDType:      "3",
		ColdWhitePin: "0",
		WarmWhitePin: "0",
		RedPin:       "12",
		GreenPin:     "13",
		BluePin:      "0",
	}
	if settings != want {
		t.Fatalf("ReadSettings = %#v, want %#v", settings, want)
	}
}

func TestRender_ProducesSubstitutedMarkup(t *testing.T) {
	out, err := Render(testPage, testResponse())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(out, "<h1>Porch light</h1>") {
		t.Fatalf("rendered page missing heading: %s", out)
	}
	if !strings.Contains(out, `<option value="12" selected="">GPIO12</option>`) {
		t.Fatalf("rendered page missing selected red pin: %s", out)
	}
	if strings.Contains(out, `<option value="14" selected="">`) {
		t.Fatalf("previous blue selection should be cleared: %s", out)
	}
	if len(Unresolved(out)) != 0 {
		t.Fatalf("rendered page has unresolved placeholders: %v", Unresolved(out))
	}
}

func TestPopulate_MissingElement(t *testing.T) {
	doc, err := Parse(`<input id="firmware" value="1.0">`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	err = Populate(doc)
	if !errors.Is(err, ErrElementNotFound) {
		t.Fatalf("Populate error = %v, want ErrElementNotFound", err)
	}
	if !strings.Contains(err.Error(), "#version") {
		t.Fatalf("Populate error = %q, want it to name #version", err.Error())
	}
}

func TestDocument_SelectValueSemantics(t *testing.T) {
	doc, err := Parse(`<select id="s"><optgroup><option>First</option></optgroup><option value="2">Two</option></select><select id="empty"></select>`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if v, _ := doc.Value("s"); v != "First" {
		t.Fatalf("Value without selection = %q, want first option text", v)
	}
	if err := doc.SetValue("s", "2"); err != nil {
		t.Fatalf("SetValue returned error: %v", err)
	}
	if v, _ := doc.Value("s"); v != "2" {
		t.Fatalf("Value after SetValue = %q, want 2", v)
	}
	if err := doc.SetValue("s", "missing"); err != nil {
		t.Fatalf("SetValue returned error: %v", err)
	}
	if v, _ := doc.Value("s"); v != "" {
		t.Fatalf("Value after unmatched SetValue = %q, want empty", v)
	}
	if err := doc.SetValue("s", "First"); err != nil {
		t.Fatalf("SetValue returned error: %v", err)
	}
	if v, _ := doc.Value("s"); v != "First" {
		t.Fatalf("Value after matching SetValue = %q, want First", v)
	}
	if v, _ := doc.Value("empty"); v != "" {
		t.Fatalf("Value of empty select = %q, want empty", v)
	}
}

func TestDocument_TextareaAndText(t *testing.T) {
	doc, err := Parse(`<textarea id="t">old</textarea><div id="d"><b>x</b>y</div>`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if err := doc.SetValue("t", "new <value>"); err != nil {
		t.Fatalf("SetValue returned error: %v", err)
	}
	if v, _ := doc.Value("t"); v != "new <value>" {
		t.Fatalf("textarea value = %q", v)
	}
	if v, _ := doc.Text("d"); v != "xy" {
		t.Fatalf("Text = %q, want xy", v)
	}
	if err := doc.SetText("d", "<i>plain</i>"); err != nil {
		t.Fatalf("SetText returned error: %v", err)
	}
	out, err := doc.Render()
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(out, `<div id="d">&lt;i&gt;plain&lt;/i&gt;</div>`) {
		t.Fatalf("SetText should escape markup: %s", out)
	}
	if doc.Has("nope") {
		t.Fatalf("Has(nope) = true")
	}
}

func TestApplySettings_RoundTripsThroughForm(t *testing.T) {
	doc, err := Load(testPage, testResponse())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := device.Settings{
		DeviceName:   "A B",
		NetName:      "GARDEN",
		LEDType:      "1",
		ColdWhitePin: "4",
		WarmWhitePin: "5",
		RedPin:       "0",
		GreenPin:     "0",
		BluePin:      "14",
	}
	if err := ApplySettings(doc, want); err != nil {
		t.Fatalf("ApplySettings returned error: %v", err)
	}
	got, err := ReadSettings(doc)
	if err != nil {
		t.Fatalf("ReadSettings returned error: %v", err)
	}
	if got != want {
		t.Fatalf("ReadSettings = %#v, want %#v", got, want)
	}
	if !strings.Contains(got.Query(), "deviceName=A%20B") {
		t.Fatalf("Query = %q, want encoded device name", got.Query())
	}
}
