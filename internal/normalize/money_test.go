package normalize

import "testing"

func TestMoney(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
		ok   bool
	}{
		{"bare numeral is rials", "10000000000", 10_000_000_000, true},
		{"separators stripped", "4,200,000,000", 4_200_000_000, true},
		{"persian digits", "۴۲۰۰۰۰۰۰۰۰", 4_200_000_000, true},
		{"toman scales by ten", "420000000 تومان", 4_200_000_000, true},
		{"rial token is identity", "4200000000 ریال", 4_200_000_000, true},
		{"worded billions", "ده میلیارد", 10_000_000_000, true},
		{"worded toman", "ده میلیارد تومان", 100_000_000_000, true},
		{"compound chunks", "چهار میلیارد و دویست میلیون", 4_200_000_000, true},
		{"compound toman", "4 میلیارد و 200 میلیون تومان", 42_000_000_000, true},
		{"glued multiplier", "4میلیارد", 4_000_000_000, true},
		{"bare multiplier implies one", "میلیارد تومان", 10_000_000_000, true},
		{"hundred scales chunk", "چهار صد میلیون", 400_000_000, true},
		{"hundred thousand toman", "صد هزار تومان", 1_000_000, true},
		{"tens add within chunk", "دویست و پنجاه میلیون تومان", 2_500_000_000, true},
		{"english words", "two million toman", 20_000_000, true},
		{"noise words ignored", "قیمت حدود 15 میلیون تومان", 150_000_000, true},
		{"zero", "0", 0, true},
		{"no amount", "نمیدونم", 0, false},
		{"empty", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Money(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Money(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

// The toman convention is a single ×10 at this boundary: a worded toman
// amount must equal ten times the same amount given as a bare numeral.
func TestMoneyTomanConvention(t *testing.T) {
	worded, ok := Money("ده میلیارد تومان")
	if !ok {
		t.Fatal("worded amount did not parse")
	}
	bare, ok := Money("10000000000")
	if !ok {
		t.Fatal("bare amount did not parse")
	}
	if worded != 10*bare {
		t.Errorf("toman convention broken: worded=%d bare=%d", worded, bare)
	}
}
