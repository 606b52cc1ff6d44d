package eq

import "testing"

func TestParsePalette(t *testing.T) {
	p, err := ParsePalette([]byte(`{"barBgColor":"#000","barColor":"#ffffff","barColor2":"#123456","barColor3":"#abcdef"}`))
	if err != nil {
		t.Fatalf("ParsePalette: %v", err)
	}
	if p.Background != "#000" || p.Bar != "#ffffff" || p.Bar2 != "#123456" || p.Bar3 != "#abcdef" {
		t.Fatalf("unexpected palette: %+v", p)
	}
}

func TestParsePaletteMissingKeysUseDefaults(t *testing.T) {
	p, err := ParsePalette([]byte(`{"barColor":"#ff0000"}`))
	if err != nil {
		t.Fatalf("ParsePalette: %v", err)
	}
	def := DefaultPalette()
	if p.Bar != "#ff0000" || p.Background != def.Background || p.Bar2 != def.Bar2 || p.Bar3 != def.Bar3 {
		t.Fatalf("unexpected palette: %+v", p)
	}
}

func TestParsePaletteFallsBack(t *testing.T) {
	for _, in := range []string{
		`{"barColor": `,
		`{"barColor": "red"}`,
		`{"barBgColor": ""}`,
		`[1, 2]`,
	} {
		p, err := ParsePalette([]byte(in))
		if err == nil {
			t.Errorf("%s: expected an error", in)
		}
		if p != DefaultPalette() {
			t.Errorf("%s: expected the default palette, got %+v", in, p)
		}
	}
}
