package session

import "testing"

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte("Kick"), "Kick"},
		{"utf8", []byte("Caf\xc3\xa9"), "Café"},
		{"mac roman", []byte("Caf\x8e"), "Café"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeText(tt.in); got != tt.want {
				t.Fatalf("decodeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
