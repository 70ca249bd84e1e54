package model

import (
	"strings"
)

// NaturalCompare orders a and b naturally, for use with slices.SortFunc.
//
// Each name is split into alternating runs of non-digits and digits.
// Digit runs compare numerically, text runs case-insensitively, so
// "track2.mp3" sorts before "track10.mp3".
func NaturalCompare(a, b string) int {
	ka, kb := naturalKey(a), naturalKey(b)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		var c int
		if i%2 == 1 {
			c = compareDigits(ka[i], kb[i])
		} else {
			c = strings.Compare(ka[i], kb[i])
		}
		if c != 0 {
			return c
		}
	}
	switch {
	case len(ka) < len(kb):
		return -1
	case len(ka) > len(kb):
		return 1
	}
	return 0
}

// naturalKey splits s into runs starting with a (possibly empty) text run,
// so even indexes hold lowercased text and odd indexes hold digits.
func naturalKey(s string) []string {
	s = strings.ToLower(s)
	var key []string
	start := 0
	inDigits := false
	for i := 0; i < len(s); i++ {
		d := s[i] >= '0' && s[i] <= '9'
		if d != inDigits {
			key = append(key, s[start:i])
			start = i
			inDigits = d
		}
	}
	key = append(key, s[start:])
	if inDigits {
		key = append(key, "")
	}
	return key
}

// compareDigits compares two decimal strings by value without parsing,
// so arbitrarily long runs never overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
