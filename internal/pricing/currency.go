package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatBRL renders a value as Brazilian Real, e.g. "R$ 1.234,56".
func FormatBRL(v float64) string {
	cents := int64(math.Round(math.Abs(v) * 100))
	s := "R$ " + groupThousands(strconv.FormatInt(cents/100, 10)) + fmt.Sprintf(",%02d", cents%100)
	if v < 0 && cents > 0 {
		return "-" + s
	}
	return s
}

// ParseBRL reads a masked value ("R$ 1.234,56", "1.234,56", "70") back into a number.
func ParseBRL(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return 0, nil
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.Replace(s, ",", ".", 1)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid currency value %q: %w", s, err)
	}
	return roundCents(v), nil
}

// MaskCurrencyInput formats raw typed digits with the last two as cents:
// "123456" becomes "1.234,56" and "5" becomes "0,05".
func MaskCurrencyInput(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := strings.TrimLeft(digits.String(), "0")
	if d == "" {
		if digits.Len() == 0 {
			return ""
		}
		return "0,00"
	}
	for len(d) < 3 {
		d = "0" + d
	}

	return groupThousands(d[:len(d)-2]) + "," + d[len(d)-2:]
}

func groupThousands(intPart string) string {
	if len(intPart) <= 3 {
		return intPart
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String()
}

// Amount is a money field sent by the back office either as a JSON number or as the
// masked text of a currency input.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParseBRL(s)
		if err != nil {
			return err
		}
		*a = Amount(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Amount(roundCents(v))
	return nil
}
