package types

import "testing"

func TestAddressValidate(t *testing.T) {
	addr := Address{
		Line1:      "500 Harbor Blvd",
		City:       "Portland",
		State:      "OR",
		PostalCode: "97201",
	}
	if err := addr.Validate(); err != nil {
		t.Fatalf("expected valid address, got %v", err)
	}

	missing := addr
	missing.City = "  "
	if err := missing.Validate(); err == nil {
		t.Fatal("expected error for missing city")
	}
}

func TestAddressNormalizedDefaultsCountry(t *testing.T) {
	addr := Address{
		Line1:      "  500 Harbor Blvd ",
		City:       " Portland",
		State:      "OR ",
		PostalCode: " 97201 ",
	}
	got := addr.Normalized()
	if got.Country != "US" {
		t.Fatalf("expected defaulted country US, got %q", got.Country)
	}
	if got.Line1 != "500 Harbor Blvd" || got.City != "Portland" {
		t.Fatalf("expected trimmed fields, got %+v", got)
	}
}
