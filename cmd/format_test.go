package cmd

import "testing"

func TestFormatPrice(t *testing.T) {
	cases := map[float64]string{
		0:          "₹0",
		99.5:       "₹99.5",
		1234:       "₹1,234",
		1234567.25: "₹1,234,567.25",
		-450:       "-₹450",
	}
	for in, want := range cases {
		if got := formatPrice(in); got != want {
			t.Errorf("formatPrice(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := formatPercent(14.285714); got != "14.29%" {
		t.Fatalf("got %q", got)
	}
}

func TestCleanURL(t *testing.T) {
	got := cleanURL("https://www.jiomart.com/p/groceries/ghee/1?source=search&pos=2")
	if got != "https://www.jiomart.com/p/groceries/ghee/1" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Aashirvaad Atta", 10); got != "Aashirv..." {
		t.Fatalf("got %q", got)
	}
	if got := truncate("Atta", 10); got != "Atta" {
		t.Fatalf("got %q", got)
	}
}
