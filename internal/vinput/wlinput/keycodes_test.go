package wlinput

import "testing"

func TestKeycodeMappingKnownKeys(t *testing.T) {
	cases := map[int32]uint16{
		29:  30, // AKEYCODE_A -> KEY_A
		66:  28, // AKEYCODE_ENTER -> KEY_ENTER
	}
	for android, want := range cases {
		got, ok := keycodeMapping[android]
		if !ok {
			t.Fatalf("android keycode %d missing from mapping", android)
		}
		if got != want {
			t.Fatalf("android keycode %d: got evdev %d, want %d", android, got, want)
		}
	}
}
