package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("expected default limit for negative input, got %d", got)
	}
	if got := NormalizeLimit(500); got != MaxLimit {
		t.Fatalf("expected max limit cap, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(Params{Page: 0, Limit: 0}); got != 0 {
		t.Fatalf("expected zero offset for first page, got %d", got)
	}
	if got := Offset(Params{Page: 3, Limit: 20}); got != 40 {
		t.Fatalf("expected offset 40, got %d", got)
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage([]string{"a", "b"}, 12, Params{Page: 2, Limit: 2})
	if page.Page != 2 || page.Limit != 2 || page.Total != 12 {
		t.Fatalf("unexpected page envelope: %+v", page)
	}

	empty := NewPage[string](nil, 0, Params{})
	if empty.Items == nil {
		t.Fatalf("expected empty slice, got nil items")
	}
	if empty.Page != 1 || empty.Limit != DefaultLimit {
		t.Fatalf("expected normalized defaults, got %+v", empty)
	}
}
