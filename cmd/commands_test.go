package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"comptesupport/config"

	"github.com/spf13/viper"
)

// executeWithoutConfig runs the root command with an empty HOME and no config file.
func executeWithoutConfig(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	cfgFile = ""
	viper.Reset()
	config.SetDefaults()
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
		config.SetDefaults()
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPartnersCommand_RunsWithoutConfigFile(t *testing.T) {
	t.Cleanup(func() {
		partnersDirectory = ""
		partnersFormat = ""
	})

	path := filepath.Join(t.TempDir(), "partenaires.csv")
	content := "NOM DU PARTENAIRE;ADRESSES\nACME (ACM);compta@acme.test\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write directory: %v", err)
	}

	out, err := executeWithoutConfig(t, "partners", "-d", path)
	if err != nil {
		t.Fatalf("partners without config file: %v", err)
	}
	if !strings.Contains(out, "compta@acme.test") || !strings.Contains(out, "Partners: 1") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestGenerateCommand_RequiresResolvedTemplate(t *testing.T) {
	t.Cleanup(func() {
		generateSource = ""
		generateOutputDir = ""
	})

	_, err := executeWithoutConfig(t, "generate", "-s", "releve.xlsx", "--output-dir", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "no template given") {
		t.Fatalf("expected missing template error, got %v", err)
	}
}
