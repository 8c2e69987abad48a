package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"comptesupport/internal/xlsxtest"
	"comptesupport/workbook"
)

func intPtr(v int) *int {
	return &v
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fill      workbook.Fill
		want      Color
		signature string
	}{
		{name: "no fill", fill: workbook.Fill{Pattern: "none"}, want: IndexedColor{Index: 64}, signature: "#FFFFFF"},
		{name: "argb", fill: workbook.Fill{Pattern: "solid", Color: &workbook.ColorRef{RGB: "FFFFFF00"}}, want: RGBColor{Hex: "FFFF00"}, signature: "#FFFF00"},
		{name: "rgb", fill: workbook.Fill{Pattern: "solid", Color: &workbook.ColorRef{RGB: "c0504d"}}, want: RGBColor{Hex: "C0504D"}, signature: "#C0504D"},
		{name: "bad rgb", fill: workbook.Fill{Pattern: "solid", Color: &workbook.ColorRef{RGB: "XYZ"}}, want: OpaqueColor{Raw: "RGB: XYZ"}, signature: "RGB: XYZ"},
		{name: "known theme", fill: workbook.Fill{Pattern: "solid", Color: &workbook.ColorRef{Theme: intPtr(4), Tint: 0.4}}, want: ThemeColor{Index: 4, Tint: 0.4}, signature: "#4472C4"},
		{name: "unknown theme", fill: workbook.Fill{Pattern: "solid", Color: &workbook.ColorRef{Theme: intPtr(11)}}, want: ThemeColor{Index: 11}, signature: "Theme: 11"},
		{name: "indexed", fill: workbook.Fill{Pattern: "solid", Color: &workbook.ColorRef{Indexed: intPtr(10)}}, want: IndexedColor{Index: 10}, signature: "Color Index: 10"},
		{name: "indexed white", fill: workbook.Fill{Pattern: "solid", Color: &workbook.ColorRef{Indexed: intPtr(64)}}, want: IndexedColor{Index: 64}, signature: "#FFFFFF"},
		{name: "gradient", fill: workbook.Fill{Pattern: "gradient", Gradient: true}, want: OpaqueColor{Raw: "Gradient"}, signature: "Gradient"},
		{name: "auto", fill: workbook.Fill{Pattern: "solid", Color: &workbook.ColorRef{Auto: true}}, want: OpaqueColor{Raw: "Auto"}, signature: "Auto"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tc.fill)
			if got != tc.want {
				t.Fatalf("Classify = %#v, want %#v", got, tc.want)
			}
			if got.Signature() != tc.signature {
				t.Fatalf("Signature = %q, want %q", got.Signature(), tc.signature)
			}
		})
	}
}

func TestIsNoFill(t *testing.T) {
	t.Parallel()

	if !IsNoFill(IndexedColor{Index: NoFillIndex}) {
		t.Fatalf("expected index 64 to be the no-fill sentinel")
	}
	if IsNoFill(RGBColor{Hex: "FFFFFF"}) {
		t.Fatalf("explicit white fill must not be treated as no fill")
	}
	if IsNoFill(IndexedColor{Index: 9}) {
		t.Fatalf("index 9 must not be treated as no fill")
	}
}

func TestScan_ClassifiesRows(t *testing.T) {
	t.Parallel()

	path := xlsxtest.Write(t, t.TempDir(), "source.xlsx", xlsxtest.Sheet{
		Name: "Comptes",
		Rows: [][]any{
			{"ACME", "header"},
			{"01.01.2024", 10.5},
			{"libellé", 3},
			{"BETA (BT)"},
			{time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 1},
		},
		RowFills: map[int]string{1: "#FFC000", 4: "#FFC000"},
	})

	wb, err := workbook.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer wb.Close()

	rows, err := Scan(context.Background(), wb, "Comptes")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}

	for i, row := range rows {
		if row.Number != i+1 {
			t.Fatalf("row %d has number %d", i, row.Number)
		}
	}
	if rows[0].HasDate || rows[0].Text != "ACME" || rows[0].Signature() != "#FFC000" {
		t.Fatalf("unexpected row 1: %+v", rows[0])
	}
	if !rows[1].HasDate || !rows[1].Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected text date on row 2, got %+v", rows[1])
	}
	if !IsNoFill(rows[2].Color) || rows[2].HasDate {
		t.Fatalf("expected plain data row 3, got %+v", rows[2])
	}
	if !rows[4].HasDate || !rows[4].Date.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected typed date on row 5, got %+v", rows[4])
	}

	dates := Dates(rows)
	if len(dates) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(dates))
	}
}

func TestScan_IncludesTrailingStyledRows(t *testing.T) {
	t.Parallel()

	path := xlsxtest.Write(t, t.TempDir(), "source.xlsx", xlsxtest.Sheet{
		Name: "Comptes",
		Rows: [][]any{
			{"ACME"},
			{"01.01.2024"},
			{"libellé"},
			{},
			{nil},
		},
		RowFills: map[int]string{5: "#FFC000"},
	})

	wb, err := workbook.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer wb.Close()

	rows, err := Scan(context.Background(), wb, "Comptes")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[3].Text != "" || !IsNoFill(rows[3].Color) {
		t.Fatalf("expected empty plain row 4, got %+v", rows[3])
	}
	if rows[4].Text != "" || rows[4].Signature() != "#FFC000" {
		t.Fatalf("expected highlighted empty row 5, got %+v", rows[4])
	}
}

func TestScan_EmptySheetIsMalformed(t *testing.T) {
	t.Parallel()

	path := xlsxtest.Write(t, t.TempDir(), "empty.xlsx", xlsxtest.Sheet{Name: "Vide"})
	wb, err := workbook.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer wb.Close()

	_, err = Scan(context.Background(), wb, "Vide")
	if !errors.Is(err, workbook.ErrMalformedSource) {
		t.Fatalf("expected malformed source error, got %v", err)
	}
}

func TestScan_StopsOnCancellation(t *testing.T) {
	t.Parallel()

	path := xlsxtest.Write(t, t.TempDir(), "source.xlsx", xlsxtest.Sheet{
		Name: "Comptes",
		Rows: [][]any{{"ACME"}, {"01.01.2024"}},
	})
	wb, err := workbook.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer wb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Scan(ctx, wb, "Comptes"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
