package normalize

import "strings"

// Phone canonicalizes an Iranian mobile number to the 11-digit national
// form (09xxxxxxxxx). Country-code prefixes (+98, 0098, bare 98) are
// rewritten to the leading-zero form; anything that does not end up as
// 11 digits starting 09 — landlines included — is absent.
func Phone(raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}

	var b strings.Builder
	for i, r := range Digits(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	n := b.String()

	switch {
	case strings.HasPrefix(n, "+98"):
		n = "0" + n[3:]
	case strings.HasPrefix(n, "0098"):
		n = "0" + n[4:]
	case strings.HasPrefix(n, "98") && len(n) == 12:
		n = "0" + n[2:]
	}
	if !strings.HasPrefix(n, "0") && len(n) == 10 {
		n = "0" + n
	}

	if len(n) == 11 && strings.HasPrefix(n, "09") {
		return n, true
	}
	return "", false
}
