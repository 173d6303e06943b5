package pool

import "testing"

func TestNormalizerStrip(t *testing.T) {
	tests := []struct {
		name       string
		qualifiers []string
		input      string
		want       string
		wantOK     bool
	}{
		{"any leading word", nil, "Rare Iron Ore", "Iron Ore", true},
		{"single word", nil, "Coal", "", false},
		{"trailing space only", nil, "Rare ", "", false},
		{"known qualifier", []string{"rare", "epic"}, "Epic Sword", "Sword", true},
		{"unknown qualifier", []string{"rare", "epic"}, "Iron Ore", "", false},
		{"case insensitive", []string{"Rare"}, "RARE Gem", "Gem", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewNormalizer(tt.qualifiers...).Strip(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Strip(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizerMerge(t *testing.T) {
	tests := []struct {
		name  string
		stock Stock
		delta Stock
		want  Stock
	}{
		{
			name:  "plain add",
			stock: Stock{"Coal": 1},
			delta: Stock{"Coal": 2},
			want:  Stock{"Coal": 3},
		},
		{
			name:  "create missing",
			stock: Stock{},
			delta: Stock{"Log": 4},
			want:  Stock{"Log": 4},
		},
		{
			name:  "qualifier folded into canonical",
			stock: Stock{"Sword": 1},
			delta: Stock{"Rare Sword": 2},
			want:  Stock{"Sword": 3},
		},
		{
			name:  "qualified entry already present wins",
			stock: Stock{"Sword": 1, "Rare Sword": 5},
			delta: Stock{"Rare Sword": 2},
			want:  Stock{"Sword": 1, "Rare Sword": 7},
		},
		{
			name:  "no canonical entry creates qualified",
			stock: Stock{"Shield": 1},
			delta: Stock{"Rare Sword": 2},
			want:  Stock{"Shield": 1, "Rare Sword": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			NewNormalizer().Merge(tt.stock, tt.delta)
			if len(tt.stock) != len(tt.want) {
				t.Fatalf("Merge() = %v, want %v", tt.stock, tt.want)
			}
			for k, v := range tt.want {
				if tt.stock[k] != v {
					t.Errorf("Merge()[%q] = %d, want %d", k, tt.stock[k], v)
				}
			}
		})
	}
}
