package core

const maxInt = int(^uint(0) >> 1)

// parseEffectID parses a whole line as a C "%i" integer: optional leading
// blanks, optional sign, then 0x/0X hex, leading-0 octal or decimal digits.
// Trailing characters make the line not an integer. Magnitudes beyond the
// int range saturate, so they still reach the range check as integers.
func parseEffectID(s string) (int, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}

	negative := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		negative = s[i] == '-'
		i++
	}

	base := uint64(10)
	if i+1 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
		base = 16
		i += 2
	} else if i < len(s) && s[i] == '0' {
		base = 8
	}

	limit := uint64(maxInt)
	if negative {
		limit++
	}

	start := i
	value := uint64(0)
	for ; i < len(s); i++ {
		d, ok := digitValue(s[i])
		if !ok || d >= base {
			return 0, false
		}
		if value > limit {
			continue
		}
		if value > (limit-d)/base {
			value = limit + 1
			continue
		}
		value = value*base + d
	}
	if i == start {
		return 0, false // No digits found
	}

	if value > limit {
		value = limit
	}
	if negative {
		if value == uint64(maxInt)+1 {
			return -maxInt - 1, true
		}
		return -int(value), true
	}
	return int(value), true
}

func digitValue(c byte) (uint64, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0'), true
	case c >= 'a' && c <= 'f':
		return uint64(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return uint64(c-'A') + 10, true
	}
	return 0, false
}
