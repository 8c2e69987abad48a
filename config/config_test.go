package config

import (
	"strings"
	"testing"
)

func TestValidateYAMLContent_ExampleIsValid(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}
	if cfg.Report.Count != 3 || cfg.Report.StartIndex != 0 {
		t.Fatalf("unexpected window defaults: %+v", cfg.Report)
	}
	if cfg.Report.SupplementColumn != "NOM DU PARTENAIRE" || len(cfg.Report.Supplements) != 2 {
		t.Fatalf("unexpected supplement settings: %+v", cfg.Report)
	}
	if !strings.Contains(cfg.Mail.Body, "{{.File}}") {
		t.Fatalf("expected body template, got %q", cfg.Mail.Body)
	}
	if cfg.Mail.Configured() {
		t.Fatalf("example mail section should not be configured")
	}
}

func TestValidateYAMLContent_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(`report:
  template: "modele.xlsx"
  output_dir: "out"
`))
	if err != nil {
		t.Fatalf("expected minimal config to validate: %v", err)
	}
	if cfg.Report.Count != 3 || cfg.Storage.DB != "./comptesupport.db" || cfg.Mail.Port != 587 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestValidateYAMLContent_ReportPathsOptional(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("directory:\n  path: \"partenaires.csv\"\n"))
	if err != nil {
		t.Fatalf("expected config without report paths to validate: %v", err)
	}
	if cfg.Report.Template != "" || cfg.Report.OutputDir != "" {
		t.Fatalf("expected empty report paths, got %+v", cfg.Report)
	}
}

func TestValidateYAMLContent_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name: "negative start",
			content: `report:
  start_index: -1
`,
			want: "StartIndex",
		},
		{
			name: "zero count",
			content: `report:
  template: "modele.xlsx"
  output_dir: "out"
  count: 0
`,
			want: "Count",
		},
		{
			name: "duplicate supplement",
			content: `report:
  template: "modele.xlsx"
  output_dir: "out"
  supplements: ["ENCOURS", "encours"]
`,
			want: "duplicate supplement sheet",
		},
		{
			name: "regenerated sheet not listed",
			content: `report:
  template: "modele.xlsx"
  output_dir: "out"
  supplements: ["ENCOURS"]
  regenerated_sheet: "ECHEANCIER"
`,
			want: "not listed",
		},
		{
			name: "invalid cc",
			content: `report:
  template: "modele.xlsx"
  output_dir: "out"
mail:
  cc: ["not-an-address"]
`,
			want: "CC",
		},
		{
			name: "host without sender",
			content: `report:
  template: "modele.xlsx"
  output_dir: "out"
mail:
  host: "smtp.example.org"
`,
			want: "mail.from is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ValidateYAMLContent([]byte(tt.content))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
