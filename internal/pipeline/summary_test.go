package pipeline

import (
	"testing"

	"salesmini/internal"
)

func sp(v string) *string { return &v }

func TestSummarize(t *testing.T) {
	orders := []internal.Order{
		{OrderID: "1", CompanyName: sp("B"), TotalPrice: nd("1100")},
		{OrderID: "2", CompanyName: sp("A"), TotalPrice: nd("275")},
		{OrderID: "3", CompanyName: sp("A")},
		{OrderID: "4", CompanyName: sp("B"), TotalPrice: nd("25")},
		{OrderID: "5"},
	}
	s := Summarize(orders)
	if s.OrderCount != 5 {
		t.Fatalf("count=%d", s.OrderCount)
	}
	if s.TotalAmount.String() != "1400" {
		t.Fatalf("total=%s", s.TotalAmount)
	}
	if s.TopCompany != "B" || s.TopCompanyN != 2 {
		t.Fatalf("top=%s/%d", s.TopCompany, s.TopCompanyN)
	}

	empty := Summarize(nil)
	if empty.OrderCount != 0 || empty.TopCompany != "" || !empty.TotalAmount.IsZero() {
		t.Fatalf("empty=%+v", empty)
	}
}
