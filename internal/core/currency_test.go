package core

import (
	"errors"
	"testing"
)

var thaiClient = Client{
	ID:                "c1",
	Name:              "Luxury Spa Resort",
	Email:             "marketing@luxespa.th",
	Address:           "88 Sukhumvit Rd, Bangkok, Thailand",
	PreferredCurrency: THB,
	ExchangeRate:      35.50, // negotiated, intentionally off-market
}

func TestConvertUSDIsIdentity(t *testing.T) {
	for _, x := range []float64{0, 1, 99.99, 3317, -42.5} {
		got, err := Convert(x, USD, thaiClient)
		if err != nil {
			t.Fatalf("Convert(%v, USD): %v", x, err)
		}
		if got != x {
			t.Fatalf("Convert(%v, USD) = %v, want identity", x, got)
		}
	}
}

func TestConvertPrefersClientNegotiatedRate(t *testing.T) {
	got, err := Convert(100, THB, thaiClient)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got, 100*thaiClient.ExchangeRate) {
		t.Fatalf("Convert(100, THB) = %v, want client rate %v applied", got, thaiClient.ExchangeRate)
	}
}

func TestConvertFallsBackToMarketRate(t *testing.T) {
	// Viewing a THB client's invoice in MMK uses the published table, not
	// the client's contracted THB rate.
	got, err := Convert(10, MMK, thaiClient)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got, 10*MarketRateMMK) {
		t.Fatalf("Convert(10, MMK) = %v, want market rate %v applied", got, float64(MarketRateMMK))
	}

	usdClient := Client{ID: "c2", Name: "TechGear", PreferredCurrency: USD, ExchangeRate: 1}
	got, err = Convert(10, THB, usdClient)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got, 10*MarketRateTHB) {
		t.Fatalf("Convert(10, THB) = %v, want market THB rate", got)
	}
}

func TestConvertUnknownCurrencyFails(t *testing.T) {
	if _, err := Convert(10, Currency("EUR"), thaiClient); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}

	// A client record carrying a stray code must not convert at its stored
	// rate just because the target matches the record.
	strayClient := thaiClient
	strayClient.PreferredCurrency = Currency("EUR")
	if _, err := Convert(10, strayClient.PreferredCurrency, strayClient); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency for stray client currency, got %v", err)
	}
}

func TestParseCurrency(t *testing.T) {
	cases := []struct {
		in   string
		want Currency
		ok   bool
	}{
		{"USD", USD, true},
		{"usd", USD, true},
		{" thb ", THB, true},
		{"MMK", MMK, true},
		{"EUR", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseCurrency(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("ParseCurrency(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
			}
		} else if !errors.Is(err, ErrUnknownCurrency) {
			t.Fatalf("ParseCurrency(%q): expected ErrUnknownCurrency, got %v", tc.in, err)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		amount   float64
		currency Currency
		want     string
	}{
		{3317, USD, "$3,317.00"},
		{2000.5, USD, "$2,000.50"},
		{1234567.891, THB, "฿1,234,567.89"},
		{0, THB, "฿0.00"},
		{10614400, MMK, "K 10,614,400"},
		{1234.56, MMK, "K 1,235"}, // kyat never shows decimals
		{-42.5, USD, "-$42.50"},
	}
	for _, tc := range cases {
		if got := Format(tc.amount, tc.currency); got != tc.want {
			t.Fatalf("Format(%v, %s) = %q, want %q", tc.amount, tc.currency, got, tc.want)
		}
	}
}
