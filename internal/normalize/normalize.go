// Package normalize converts raw user text into canonical typed values.
// Every function returns (value, ok); ok=false means the input could not be
// understood and the caller should re-prompt. Nothing here ever guesses.
package normalize

import (
	"strconv"
	"strings"
)

// persianDigits maps Persian and Arabic-Indic digit glyphs to ASCII.
var persianDigits = map[rune]rune{
	'۰': '0', '۱': '1', '۲': '2', '۳': '3', '۴': '4',
	'۵': '5', '۶': '6', '۷': '7', '۸': '8', '۹': '9',
	'٠': '0', '١': '1', '٢': '2', '٣': '3', '٤': '4',
	'٥': '5', '٦': '6', '٧': '7', '٨': '8', '٩': '9',
}

// Digits folds localized digit glyphs to ASCII digits.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := persianDigits[r]; ok {
			return d
		}
		return r
	}, s)
}

// smallWords is the closed set of spelled-out small numbers Int accepts.
var smallWords = map[string]int{
	"یک": 1, "دو": 2, "سه": 3, "چهار": 4, "پنج": 5,
	"شش": 6, "هفت": 7, "هشت": 8, "نه": 9, "ده": 10,
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// Int parses an integer from free text: localized digits, thousands
// separators and a small closed set of spelled-out numbers.
func Int(raw string) (int, bool) {
	clean := strings.ToLower(strings.TrimSpace(Digits(raw)))
	if clean == "" {
		return 0, false
	}
	if n, ok := smallWords[clean]; ok {
		return n, true
	}
	clean = strings.NewReplacer(",", "", "٬", "", " ", "").Replace(clean)
	if n, err := strconv.Atoi(clean); err == nil {
		return n, true
	}
	// Tolerate "3.0"-style answers.
	if f, err := strconv.ParseFloat(clean, 64); err == nil && f == float64(int(f)) {
		return int(f), true
	}
	return 0, false
}

var yesTokens = map[string]bool{
	"بله": true, "اره": true, "آره": true, "دارد": true, "داره": true,
	"هست": true, "yes": true, "true": true, "1": true, "ok": true,
}

var noTokens = map[string]bool{
	"نه": true, "خیر": true, "ندارد": true, "نداره": true, "نیست": true,
	"no": true, "false": true, "0": true,
}

// YesNo maps affirmative and negative tokens to a boolean. Anything else
// is absent — never a silent default.
func YesNo(raw string) (bool, bool) {
	v := strings.ToLower(strings.TrimSpace(Digits(raw)))
	if yesTokens[v] {
		return true, true
	}
	if noTokens[v] {
		return false, true
	}
	return false, false
}
