package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain integer", raw: "120000", want: "120000"},
		{name: "dot decimal", raw: "1234.56", want: "1234.56"},
		{name: "comma decimal", raw: "1234,56", want: "1234.56"},
		{name: "thousands dot comma decimal", raw: "1.234,56", want: "1234.56"},
		{name: "thousands comma dot decimal", raw: "1,234.56", want: "1234.56"},
		{name: "currency prefix", raw: "$1500", want: "1500"},
		{name: "currency prefix with spaces", raw: "  $ 1.500,50 ", want: "1500.5"},
		{name: "empty", raw: "", want: "0"},
		{name: "whitespace only", raw: "   ", want: "0"},
		{name: "not available marker", raw: "N/A", want: "0"},
		{name: "lowercase marker", raw: "n/a", want: "0"},
		{name: "garbage", raw: "call us", want: "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParsePrice(tt.raw)
			want, err := decimal.NewFromString(tt.want)
			if err != nil {
				t.Fatalf("bad want value %q: %v", tt.want, err)
			}
			if !got.Equal(want) {
				t.Fatalf("ParsePrice(%q) = %s, want %s", tt.raw, got, want)
			}
		})
	}
}
