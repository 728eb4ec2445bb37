// Package moneystr formats and parses satoshi amounts as fixed-point
// decimal strings. Grounded character-for-character on
// original_source/src/utilmoneystr.cpp (FormatMoney/ParseMoney) since
// the exact trim/overflow rules are not reconstructible from
// description alone (§9 open question).
package moneystr

import (
	"strconv"
	"strings"
)

// Coin is the number of satoshis in one whole unit; Cent is Coin/100.
const (
	Coin = 100_000_000
	Cent = Coin / 100
)

// Format renders n satoshis as "[-]whole.fraction" with 8 fractional
// digits, then right-trims the string exactly as FormatMoney does:
// walk back from the end while the current character is '0' and the
// character two positions back is a digit (so trimming always stops
// at the decimal point, never eating into the whole part).
func Format(n int64) string {
	nAbs := n
	if nAbs < 0 {
		nAbs = -nAbs
	}

	quotient := nAbs / Coin
	remainder := nAbs % Coin

	str := strconv.FormatInt(quotient, 10) + "." + pad8(remainder)

	trim := 0
	for i := len(str) - 1; i-2 >= 0 && str[i] == '0' && isDigit(str[i-2]); i-- {
		trim++
	}

	if trim > 0 {
		str = str[:len(str)-trim]
	}

	if n < 0 {
		str = "-" + str
	}

	return str
}

func pad8(remainder int64) string {
	s := strconv.FormatInt(remainder, 10)
	if len(s) < 8 {
		s = strings.Repeat("0", 8-len(s)) + s
	}
	return s
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Parse implements ParseMoney: skip leading whitespace, consume a
// digits-only whole part, an optional '.' followed by up to 8
// fractional digits (extra fractional digits are left unconsumed and
// then rejected by the trailing-whitespace-only check), then require
// only whitespace to the end. Rejects more than 10 whole digits (63
// bit overflow guard) or a fractional part exceeding Coin.
func Parse(s string) (int64, bool) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}

	var whole strings.Builder
	var units int64

	for i < len(s) {
		c := s[i]

		if c == '.' {
			i++

			mult := int64(10 * Cent)
			for i < len(s) && isDigit(s[i]) && mult > 0 {
				units += mult * int64(s[i]-'0')
				i++
				mult /= 10
			}

			break
		}

		if isSpace(c) {
			break
		}

		if !isDigit(c) {
			return 0, false
		}

		whole.WriteByte(c)
		i++
	}

	for ; i < len(s); i++ {
		if !isSpace(s[i]) {
			return 0, false
		}
	}

	if whole.Len() > 10 {
		return 0, false
	}

	if units < 0 || units > Coin {
		return 0, false
	}

	wholeValue := int64(0)
	if whole.Len() > 0 {
		v, err := strconv.ParseInt(whole.String(), 10, 64)
		if err != nil {
			return 0, false
		}
		wholeValue = v
	}

	return wholeValue*Coin + units, true
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}
