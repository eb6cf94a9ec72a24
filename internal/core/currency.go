package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Published market rates, units per 1 USD. Used only when an invoice is
// viewed in a currency that is not the client's own contracted one.
const (
	MarketRateTHB = 35.13
	MarketRateMMK = 3200
)

// Rate resolves the conversion rate from USD into target for the given
// client. The client's negotiated rate takes precedence over the market
// table for their preferred currency. The target is checked against the
// closed currency set first, so a record carrying a stray code fails
// instead of converting at whatever rate it happens to hold.
func Rate(target Currency, client Client) (float64, error) {
	if !target.IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, target)
	}
	if target == USD {
		return 1, nil
	}
	if target == client.PreferredCurrency {
		return client.ExchangeRate, nil
	}
	switch target {
	case THB:
		return MarketRateTHB, nil
	case MMK:
		return MarketRateMMK, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, target)
}

// Convert turns a USD amount into the target currency for display.
func Convert(amountUSD float64, target Currency, client Client) (float64, error) {
	rate, err := Rate(target, client)
	if err != nil {
		return 0, err
	}
	return amountUSD * rate, nil
}

// Format renders an amount already denominated in the given currency.
// USD and THB show two decimals with their symbol; MMK is shown as a whole
// number since kyat amounts are never quoted with decimals.
func Format(amount float64, currency Currency) string {
	if math.Signbit(amount) {
		return "-" + Format(-amount, currency)
	}
	switch currency {
	case USD:
		return "$" + groupDecimal(amount, 2)
	case THB:
		return "฿" + groupDecimal(amount, 2)
	case MMK:
		return "K " + groupDecimal(amount, 0)
	}
	// Unknown currencies never survive ParseCurrency; fall back loudly
	// rather than printing a bare number that looks like USD.
	return fmt.Sprintf("%s %s", currency, groupDecimal(amount, 2))
}

// groupDecimal formats a non-negative value with fixed decimals and comma
// thousands grouping, e.g. 1234567.8 -> "1,234,567.80".
func groupDecimal(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	intPart := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var sb strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}
	sb.WriteString(frac)
	return sb.String()
}
