package tui

import "testing"

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		height   int
		tooSmall bool
		catalogW int
		cartW    int
		bodyH    int
	}{
		{
			name:     "80x20 minimum viable",
			width:    80, height: 20,
			catalogW: 44, // 80*40/100=32 → cart clamped to 36
			cartW:    36,
			bodyH:    18,
		},
		{
			name:     "120x40",
			width:    120, height: 40,
			catalogW: 72,
			cartW:    48, // 120*40/100=48 (in range)
			bodyH:    38,
		},
		{
			name:     "200x60",
			width:    200, height: 60,
			catalogW: 140,
			cartW:    60, // 200*40/100=80 → clamped to max 60
			bodyH:    58,
		},
		{
			name:     "79x24 too small (width)",
			width:    79, height: 24,
			tooSmall: true,
		},
		{
			name:     "80x19 too small (height)",
			width:    80, height: 19,
			tooSmall: true,
		},
		{
			name:     "0x0 too small",
			width:    0, height: 0,
			tooSmall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Calculate(tt.width, tt.height)
			if l.TooSmall != tt.tooSmall {
				t.Errorf("TooSmall: got %v, want %v", l.TooSmall, tt.tooSmall)
				return
			}
			if tt.tooSmall {
				return
			}

			if l.Header.Y != 0 || l.Header.Width != tt.width || l.Header.Height != 1 {
				t.Errorf("Header: got %+v", l.Header)
			}
			if l.Footer.Y != tt.height-1 || l.Footer.Width != tt.width || l.Footer.Height != 1 {
				t.Errorf("Footer: got %+v", l.Footer)
			}

			if l.Catalog.Width != tt.catalogW {
				t.Errorf("Catalog.Width: got %d, want %d", l.Catalog.Width, tt.catalogW)
			}
			if l.Cart.Width != tt.cartW {
				t.Errorf("Cart.Width: got %d, want %d", l.Cart.Width, tt.cartW)
			}
			if l.Catalog.Width+l.Cart.Width != tt.width {
				t.Errorf("widths %d+%d != %d", l.Catalog.Width, l.Cart.Width, tt.width)
			}

			if l.Catalog.Height != tt.bodyH || l.Cart.Height != tt.bodyH {
				t.Errorf("body heights %d/%d, want %d", l.Catalog.Height, l.Cart.Height, tt.bodyH)
			}
			if l.Catalog.Y != 1 || l.Cart.Y != 1 {
				t.Errorf("body Y: catalog %d, cart %d, want 1", l.Catalog.Y, l.Cart.Y)
			}
			if l.Catalog.X != 0 {
				t.Errorf("Catalog.X: got %d, want 0", l.Catalog.X)
			}
			if l.Cart.X != tt.catalogW {
				t.Errorf("Cart.X: got %d, want %d", l.Cart.X, tt.catalogW)
			}
		})
	}
}

func TestInnerDims(t *testing.T) {
	tests := []struct {
		name  string
		r     Rect
		wantW int
		wantH int
	}{
		{"normal", Rect{Width: 40, Height: 20}, 38, 18},
		{"clamped", Rect{Width: 1, Height: 2}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := innerDims(tt.r)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("innerDims(%+v) = %d,%d, want %d,%d", tt.r, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
