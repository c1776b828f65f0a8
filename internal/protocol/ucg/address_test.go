package ucg

import "testing"

func TestPackUnpackAddress_RoundTrip(t *testing.T) {
	for m := 0; m < 256; m++ {
		for s := 0; s < 256; s++ {
			gm, gs := UnpackAddress(PackAddress(uint8(m), uint8(s)))
			if gm != uint8(m)&0x1F || gs != uint8(s)&0x07 {
				t.Fatalf("m=%d s=%d: got (%d,%d)", m, s, gm, gs)
			}
		}
	}
}

func TestPackAddress_Layout(t *testing.T) {
	if b := PackAddress(3, 4); b != 0x1C {
		t.Fatalf("expected 0x1C, got 0x%02X", b)
	}
	if b := PackAddress(0x1F, 7); b != 0xFF {
		t.Fatalf("expected 0xFF, got 0x%02X", b)
	}
	// 高位被掩掉而不是饱和
	if b := PackAddress(0x21, 0x09); b != 0x09 {
		t.Fatalf("expected 0x09, got 0x%02X", b)
	}
}

func TestAddressFromText(t *testing.T) {
	tests := []struct {
		in        string
		main, sub uint8
		ok        bool
	}{
		{"03/4", 3, 4, true},
		{"1f/7", 0x1F, 7, true},
		{"FF/FF", 0xFF, 0xFF, true},
		{"3/0", 3, 0, true},
		{"100/0", 0, 0, false},
		{"03-4", 0, 0, false},
		{"0/1/2", 0, 0, false},
		{"/4", 0, 0, false},
		{"G/4", 0, 0, false},
	}
	for _, tt := range tests {
		m, s, ok := AddressFromText(tt.in)
		if ok != tt.ok || m != tt.main || s != tt.sub {
			t.Errorf("%q: got (%d,%d,%v) want (%d,%d,%v)", tt.in, m, s, ok, tt.main, tt.sub, tt.ok)
		}
	}
}
