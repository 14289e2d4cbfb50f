package config

import (
	"testing"
	"time"
)

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{"30 5 * * *", false},
		{"*/15 * * * *", false},
		{"0 0 1 1 0", false},
		{"", true},
		{"every morning", true},
		{"61 5 * * *", true},
	}
	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCronSchedule(%q) error = %v, wantErr %v", tt.schedule, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		timezone string
		wantErr  bool
	}{
		{"UTC", false},
		{"Asia/Tokyo", false},
		{"America/New_York", false},
		{"", true},
		{"Mars/Olympus_Mons", true},
		{"+09:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.timezone, func(t *testing.T) {
			err := ValidateTimezone(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTimezone(%q) error = %v, wantErr %v", tt.timezone, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDuration(t *testing.T) {
	if err := ValidateDuration(30*time.Minute, time.Minute, time.Hour); err != nil {
		t.Errorf("in-range duration rejected: %v", err)
	}
	if err := ValidateDuration(time.Minute, time.Minute, time.Hour); err != nil {
		t.Errorf("boundary duration rejected: %v", err)
	}
	if err := ValidateDuration(2*time.Hour, time.Minute, time.Hour); err == nil {
		t.Error("over-max duration accepted")
	}
	if err := ValidateDuration(time.Second, time.Minute, time.Hour); err == nil {
		t.Error("under-min duration accepted")
	}
	if err := ValidateDuration(time.Minute, time.Hour, time.Minute); err == nil {
		t.Error("inverted range accepted")
	}
}

func TestValidateIntRange(t *testing.T) {
	if err := ValidateIntRange(9091, 1024, 65535); err != nil {
		t.Errorf("in-range value rejected: %v", err)
	}
	if err := ValidateIntRange(80, 1024, 65535); err == nil {
		t.Error("out-of-range value accepted")
	}
	if err := ValidateIntRange(5, 10, 1); err == nil {
		t.Error("inverted range accepted")
	}
}

func TestValidatePositiveDuration(t *testing.T) {
	if err := ValidatePositiveDuration(time.Second); err != nil {
		t.Errorf("positive duration rejected: %v", err)
	}
	if err := ValidatePositiveDuration(0); err == nil {
		t.Error("zero duration accepted")
	}
	if err := ValidatePositiveDuration(-time.Second); err == nil {
		t.Error("negative duration accepted")
	}
}
