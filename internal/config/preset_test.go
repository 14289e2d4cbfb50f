package config

import "testing"

func TestPresetByName(t *testing.T) {
	p, err := PresetByName("ultra_fast")
	if err != nil {
		t.Fatalf("PresetByName err=%v", err)
	}
	if p.Width != 854 || p.Height != 480 {
		t.Fatalf("ultra_fast = %+v", p)
	}
	if p.PreferVideo {
		t.Fatal("ultra_fast should not prefer video")
	}
}

func TestPresetByName_DefaultsToBalanced(t *testing.T) {
	p, err := PresetByName("")
	if err != nil {
		t.Fatalf("PresetByName err=%v", err)
	}
	if p.Name != DefaultPresetName {
		t.Fatalf("Name = %q, want %q", p.Name, DefaultPresetName)
	}
}

func TestPresetByName_Unknown(t *testing.T) {
	if _, err := PresetByName("cinematic"); err == nil {
		t.Fatal("PresetByName err=nil, want error")
	}
}

func TestPresetNames_SortedAndComplete(t *testing.T) {
	names := PresetNames()
	if len(names) != 5 {
		t.Fatalf("names = %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
