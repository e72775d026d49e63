package cli

import (
	"fmt"
	"math/big"
	"strings"
)

// units maps an amount suffix to its power of ten
var units = map[string]int{
	"wei":   0,
	"gwei":  9,
	"ether": 18,
	"eth":   18,
}

// ParseAmount parses a wei integer or a decimal with an ether/gwei/wei suffix,
// e.g. "1000", "1.5ether", "20 gwei".
func ParseAmount(s string) (*big.Int, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return nil, fmt.Errorf("empty amount")
	}

	number, exp := raw, 0
	// longest suffix first so "gwei" is not read as "wei"
	for _, unit := range []string{"ether", "gwei", "wei", "eth"} {
		if strings.HasSuffix(raw, unit) {
			number = strings.TrimSpace(strings.TrimSuffix(raw, unit))
			exp = units[unit]
			break
		}
	}

	whole, frac, hasFrac := strings.Cut(number, ".")
	if whole == "" && !hasFrac {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > exp {
		return nil, fmt.Errorf("invalid amount %q: more than %d decimals", s, exp)
	}
	digits := whole + frac + strings.Repeat("0", exp-len(frac))
	if digits == "" || strings.Trim(digits, "0123456789") != "" {
		return nil, fmt.Errorf("invalid amount %q", s)
	}

	value, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return value, nil
}
