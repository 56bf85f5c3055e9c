package model

import (
	"errors"
	"testing"
)

func TestDeviceOutcomeValidate(t *testing.T) {
	cases := []struct {
		name    string
		outcome DeviceOutcome
		wantErr bool
	}{
		{"success with body", NewSuccess(200, map[string]any{"ok": true}), false},
		{"success with raw text", NewSuccess(500, "internal error"), false},
		{"failure with description", NewFailure("connection refused"), false},
		{"success without body", DeviceOutcome{Status: StatusSuccess, Code: 200}, true},
		{"success negative code", DeviceOutcome{Status: StatusSuccess, Code: -1, Body: "x"}, true},
		{"failure without description", DeviceOutcome{Status: StatusError}, true},
		{"unknown status", DeviceOutcome{Status: "pending"}, true},
		{"wrong field shape", DeviceOutcome{Status: "", Body: map[string]any{"wrong_field": "oops"}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.outcome.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				if !errors.Is(err, ErrInvalidOutcome) {
					t.Fatalf("expected ErrInvalidOutcome, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDispatchRequestValidate(t *testing.T) {
	if err := (DispatchRequest{}).Validate(); !errors.Is(err, ErrEmptyCommand) {
		t.Fatalf("expected ErrEmptyCommand, got %v", err)
	}
	if err := (DispatchRequest{Command: "cmd_01", DeviceIDs: []string{"device_01", ""}}).Validate(); err == nil {
		t.Fatalf("expected error for blank device id")
	}
	if err := (DispatchRequest{Command: "cmd_01"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeviceValidate(t *testing.T) {
	cases := []struct {
		name    string
		dev     Device
		wantErr bool
	}{
		{"valid", Device{ID: "device_01", URL: "http://192.168.1.10:5000"}, false},
		{"missing id", Device{URL: "http://192.168.1.10:5000"}, true},
		{"missing url", Device{ID: "device_01"}, true},
		{"relative url", Device{ID: "device_01", URL: "192.168.1.10"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.dev.Validate(); (err != nil) != tc.wantErr {
				t.Fatalf("got %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
