package titles

import "testing"

func TestLookup(t *testing.T) {
	testCases := []struct {
		name     string
		titleID  uint32
		expected string
		found    bool
	}{
		{"known title", 0x4D5307E6, "Halo 3", true},
		{"known title with letters in id", 0xFFFE07D1, "Xbox 360 Dashboard", true},
		{"unknown title", 0x00000001, "", false},
		{"zero id", 0, "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			name, ok := Lookup(tc.titleID)
			if ok != tc.found {
				t.Fatalf("Lookup(%08X) found = %v, want %v", tc.titleID, ok, tc.found)
			}
			if name != tc.expected {
				t.Errorf("Lookup(%08X) = %q, want %q", tc.titleID, name, tc.expected)
			}
		})
	}
}
