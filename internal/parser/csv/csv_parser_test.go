package csv_test

import (
	"strings"
	"testing"

	csvparser "marketpipe/internal/parser/csv"
)

func TestParseNormalizesHeaders(t *testing.T) {
	in := "\xef\xbb\xbfOrder ID,Customer ID\no1,c1\n"
	p := csvparser.NewParser(csvparser.Options{})
	tab, err := p.Parse("orders", strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"order_id", "customer_id"}
	for i, col := range want {
		if tab.Columns[i] != col {
			t.Fatalf("column %d = %q, want %q", i, tab.Columns[i], col)
		}
	}
	if tab.Rows[0]["order_id"] != "o1" {
		t.Fatalf("order_id = %v, want o1", tab.Rows[0]["order_id"])
	}
}

func TestParseEmptyCellBecomesNil(t *testing.T) {
	in := "a,b\nx,\n"
	p := csvparser.NewParser(csvparser.Options{})
	tab, err := p.Parse("t", strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tab.Rows[0]["b"] != nil {
		t.Fatalf("b = %#v, want nil", tab.Rows[0]["b"])
	}
}

func TestParseFieldCountMismatchFails(t *testing.T) {
	in := "a,b\nx\n"
	p := csvparser.NewParser(csvparser.Options{})
	if _, err := p.Parse("t", strings.NewReader(in)); err == nil {
		t.Fatal("expected error for short row")
	}
}

func TestInferTypes(t *testing.T) {
	in := strings.Join([]string{
		"id,qty,price,zip,mixed",
		"a1,3,10.5,01409,5",
		"a2,7,2,04001,x",
		"a3,,,,9",
	}, "\n") + "\n"

	p := csvparser.NewParser(csvparser.Options{InferTypes: true})
	tab, err := p.Parse("t", strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cases := []struct {
		col  string
		row  int
		want any
	}{
		{"id", 0, "a1"},             // non-numeric stays string
		{"qty", 0, int64(3)},        // all-int column
		{"price", 0, float64(10.5)}, // float column
		{"price", 1, float64(2)},    // widened int cell in float column
		{"zip", 0, "01409"},         // leading zero blocks inference
		{"mixed", 0, "5"},           // mixed column stays string
	}
	for _, c := range cases {
		got := tab.Rows[c.row][c.col]
		if got != c.want {
			t.Errorf("%s[%d] = %#v (%T), want %#v", c.col, c.row, got, got, c.want)
		}
	}
	if tab.Rows[2]["qty"] != nil {
		t.Errorf("empty qty cell should stay nil, got %#v", tab.Rows[2]["qty"])
	}
}
