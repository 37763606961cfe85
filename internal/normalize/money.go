package normalize

import (
	"math"
	"strconv"
	"strings"
)

// Money parses a monetary amount into rials.
//
// Convention: the canonical unit is the rial. Bare numerals pass through
// unscaled; a toman token applies a single ×10 at this boundary and nowhere
// else. Worded magnitudes combine additively across the conjunction «و»:
// «چهار میلیارد و دویست میلیون» → 4_200_000_000.
func Money(raw string) (int64, bool) {
	text := strings.ToLower(strings.TrimSpace(Digits(raw)))
	if text == "" {
		return 0, false
	}
	text = strings.NewReplacer(",", "", "٬", "", "_", "").Replace(text)

	toman := false
	for _, tok := range []string{"تومان", "تومن", "toman"} {
		if strings.Contains(text, tok) {
			toman = true
			text = strings.ReplaceAll(text, tok, " ")
		}
	}
	for _, tok := range []string{"ریال", "rial", "irr"} {
		text = strings.ReplaceAll(text, tok, " ")
	}

	// Multiplier words can be glued to the coefficient («4میلیارد»).
	for word := range multipliers {
		text = strings.ReplaceAll(text, word, " "+word+" ")
	}

	var total, chunk float64
	seen := false
	for _, tok := range strings.Fields(text) {
		switch {
		case tok == "و" || tok == "and":
			// chunk separator
		case isNumeric(tok):
			f, err := strconv.ParseFloat(tok, 64)
			if err != nil || f < 0 {
				return 0, false
			}
			chunk += f
			seen = true
		case tok == "صد" || tok == "hundred":
			// Scales the running chunk: «چهار صد» / "four hundred" → 400.
			if chunk == 0 {
				chunk = 1
			}
			chunk *= 100
			seen = true
		default:
			if m, ok := multipliers[tok]; ok {
				if chunk == 0 {
					chunk = 1
				}
				total += chunk * m
				chunk = 0
				seen = true
			} else if w, ok := numberWords[tok]; ok {
				chunk += float64(w)
				seen = true
			}
			// Other tokens («قیمت», «حدود») are noise, not amounts.
		}
	}
	total += chunk

	if !seen || total < 0 {
		return 0, false
	}
	if toman {
		total *= 10
	}
	return int64(math.Round(total)), true
}

func isNumeric(tok string) bool {
	for i, r := range tok {
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '.' && i > 0 {
			continue
		}
		return false
	}
	return tok != ""
}

// multipliers close a chunk and scale it.
var multipliers = map[string]float64{
	"هزار":     1e3,
	"میلیون":   1e6,
	"ملیون":    1e6,
	"میلیارد":  1e9,
	"ملیارد":   1e9,
	"thousand": 1e3,
	"million":  1e6,
	"billion":  1e9,
	"milliard": 1e9,
}

// numberWords are the units, teens, tens and hundreds accepted inside a
// chunk; they add up («دویست و پنجاه» = 250).
var numberWords = map[string]int{
	"صفر": 0, "یک": 1, "دو": 2, "سه": 3, "چهار": 4, "پنج": 5,
	"شش": 6, "هفت": 7, "هشت": 8, "نه": 9, "ده": 10,
	"یازده": 11, "دوازده": 12, "سیزده": 13, "چهارده": 14, "پانزده": 15,
	"شانزده": 16, "هفده": 17, "هجده": 18, "نوزده": 19,
	"بیست": 20, "سی": 30, "چهل": 40, "پنجاه": 50,
	"شصت": 60, "هفتاد": 70, "هشتاد": 80, "نود": 90,
	"یکصد": 100, "دویست": 200, "سیصد": 300, "چهارصد": 400,
	"پانصد": 500, "ششصد": 600, "هفتصد": 700, "هشتصد": 800, "نهصد": 900,

	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}
