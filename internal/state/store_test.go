package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/lightpanel/internal/device"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	cfg := device.NewConfigResponse(
		device.Field{Key: "firmware", Value: "1.11"},
		device.Field{Key: "deviceName", Value: "Hall"},
	)

	before := time.Now()
	s.Update(&cfg, nil)

	snap := s.Snapshot()
	if !snap.HasConfig || snap.Firmware() != "1.11" {
		t.Fatalf("snapshot = %#v, want firmware 1.11 HasConfig=true", snap)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	fields := snap.Config.Fields()
	fields[0].Value = "9.9"
	if got := s.Snapshot().Firmware(); got != "1.11" {
		t.Fatalf("Firmware = %q after mutating a copy, want 1.11", got)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	cfg := device.NewConfigResponse(device.Field{Key: "deviceName", Value: "Hall"})
	s.Update(&cfg, nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if snap.HasConfig != prev.HasConfig || !reflect.DeepEqual(snap.Config.Fields(), prev.Config.Fields()) {
		t.Fatalf("config changed on error: got %#v want %#v", snap.Config.Fields(), prev.Config.Fields())
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the original error")
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_NilConfigClears(t *testing.T) {
	var s Store
	cfg := device.NewConfigResponse(device.Field{Key: "firmware", Value: "1.11"})
	s.Update(&cfg, nil)
	s.Update(nil, nil)

	snap := s.Snapshot()
	if snap.HasConfig || snap.Firmware() != "" || snap.Config.Len() != 0 {
		t.Fatalf("snapshot = %#v, want cleared config", snap)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("fresh store failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(nil, errors.New("fail 1"))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(nil, errors.New("fail 2"))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	cfg := device.NewConfigResponse()
	s.Update(&cfg, nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}
}
