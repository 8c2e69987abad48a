package cmd

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"comptesupport/config"
	"comptesupport/report"
	"comptesupport/segment"
	"comptesupport/storage"

	"github.com/spf13/cobra"
)

func newFlagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("sheet", "", "")
	cmd.Flags().Int("count", 3, "")
	cmd.Flags().StringArray("supplement", nil, "")
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestFlagOrConfig(t *testing.T) {
	t.Run("config wins when flag is not set", func(t *testing.T) {
		cmd := newFlagCommand(t)
		if got := stringFlagOrConfig(cmd, "sheet", "", "Releve"); got != "Releve" {
			t.Fatalf("expected config sheet, got %q", got)
		}
		if got := intFlagOrConfig(cmd, "count", 3, 7); got != 7 {
			t.Fatalf("expected config count, got %d", got)
		}
		if got := stringsFlagOrConfig(cmd, "supplement", nil, []string{"ENCOURS"}); !reflect.DeepEqual(got, []string{"ENCOURS"}) {
			t.Fatalf("expected config supplements, got %v", got)
		}
	})

	t.Run("explicit flag wins", func(t *testing.T) {
		cmd := newFlagCommand(t, "--sheet", "Feuil2", "--count", "1", "--supplement", "ECHEANCIER")
		if got := stringFlagOrConfig(cmd, "sheet", "Feuil2", "Releve"); got != "Feuil2" {
			t.Fatalf("expected flag sheet, got %q", got)
		}
		if got := intFlagOrConfig(cmd, "count", 1, 7); got != 1 {
			t.Fatalf("expected flag count, got %d", got)
		}
		if got := stringsFlagOrConfig(cmd, "supplement", []string{"ECHEANCIER"}, []string{"ENCOURS"}); !reflect.DeepEqual(got, []string{"ECHEANCIER"}) {
			t.Fatalf("expected flag supplements, got %v", got)
		}
	})

	t.Run("flag default when config is blank", func(t *testing.T) {
		cmd := newFlagCommand(t)
		if got := stringFlagOrConfig(cmd, "sheet", "./comptesupport.db", " "); got != "./comptesupport.db" {
			t.Fatalf("expected flag default, got %q", got)
		}
	})
}

func TestRunStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: storage.RunStatusCompleted},
		{err: context.Canceled, want: storage.RunStatusCancelled},
		{err: fmt.Errorf("copy row 4: %w", context.Canceled), want: storage.RunStatusCancelled},
		{err: errors.New("disk full"), want: storage.RunStatusFailed},
	}
	for _, tt := range tests {
		if got := runStatus(tt.err); got != tt.want {
			t.Fatalf("runStatus(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestBlockRecords(t *testing.T) {
	outcomes := []report.BlockOutcome{
		{Index: 0, Block: segment.Block{StartRow: 1, EndRow: 3}, Partner: "PARTNER A", Path: "out/a.xlsx"},
		{Index: 1, Block: segment.Block{StartRow: 4, EndRow: 6}, Err: errors.New("no partner name")},
	}
	want := []storage.BlockRecord{
		{Position: 0, StartRow: 1, EndRow: 3, Partner: "PARTNER A", Path: "out/a.xlsx"},
		{Position: 1, StartRow: 4, EndRow: 6, Error: "no partner name"},
	}
	if got := blockRecords(outcomes); !reflect.DeepEqual(got, want) {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}

func TestDescribeConfigMasksPassword(t *testing.T) {
	cfg := &config.Config{}
	cfg.Mail.Password = "secret"
	lines := strings.Join(describeConfig(cfg), "\n")
	if strings.Contains(lines, "secret") {
		t.Fatalf("password leaked:\n%s", lines)
	}
	if !strings.Contains(lines, "mail.password: ********") {
		t.Fatalf("expected masked password line:\n%s", lines)
	}
}
