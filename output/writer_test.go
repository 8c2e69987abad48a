package output

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"comptesupport/internal/xlsxtest"
	"comptesupport/partner"
)

var sampleRoutes = []partner.Route{
	{
		FileName:        "COMPTE SUPPORT ACME du 01.01.2024.xlsx",
		FilePath:        "out/COMPTE SUPPORT ACME du 01.01.2024.xlsx",
		PartnerName:     "ACME",
		RecipientEmails: []string{"a@acme.test", "b@acme.test"},
	},
}

func TestWriterForFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  string
		want    Writer
		wantErr bool
	}{
		{format: "csv", want: &CSVWriter{}},
		{format: " XLSX ", want: &ExcelWriter{}},
		{format: "excel", want: &ExcelWriter{}},
		{format: "pdf", wantErr: true},
	}
	for _, tt := range tests {
		got, err := WriterForFormat(tt.format)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tt.format)
			}
			continue
		}
		if err != nil || !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("WriterForFormat(%q) = %T, %v", tt.format, got, err)
		}
	}

	if _, err := WriterForPath("routes.xlsx"); err != nil {
		t.Fatalf("writer for path: %v", err)
	}
}

func TestCSVWriter_Write(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "routes.csv")
	if err := (&CSVWriter{}).Write(path, sampleRoutes); err != nil {
		t.Fatalf("write: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "File;Partner;Recipients;Path\n" +
		`COMPTE SUPPORT ACME du 01.01.2024.xlsx;ACME;"a@acme.test; b@acme.test";out/COMPTE SUPPORT ACME du 01.01.2024.xlsx` + "\n"
	if got := string(content); got != want {
		t.Fatalf("unexpected csv:\n%s", got)
	}
}

func TestExcelWriter_Write(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "routes.xlsx")
	if err := (&ExcelWriter{}).Write(path, sampleRoutes); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows := xlsxtest.Rows(t, path, routesSheet)
	want := [][]string{
		{"File", "Partner", "Recipients", "Path"},
		{"COMPTE SUPPORT ACME du 01.01.2024.xlsx", "ACME", "a@acme.test; b@acme.test", "out/COMPTE SUPPORT ACME du 01.01.2024.xlsx"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("want %v, got %v", want, rows)
	}
}
