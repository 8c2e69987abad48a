package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyReportTemplate         = "report.template"
	KeyReportOutputDir        = "report.output_dir"
	KeyReportSheet            = "report.sheet"
	KeyReportStartIndex       = "report.start_index"
	KeyReportCount            = "report.count"
	KeyReportSupplements      = "report.supplements"
	KeyReportSupplementColumn = "report.supplement_column"
	KeyReportRegeneratedSheet = "report.regenerated_sheet"
	KeyReportWideSheet        = "report.wide_sheet"
	KeyDirectoryPath          = "directory.path"
	KeyMailHost               = "mail.host"
	KeyMailPort               = "mail.port"
	KeyMailUsername           = "mail.username"
	KeyMailPassword           = "mail.password"
	KeyMailFrom               = "mail.from"
	KeyMailFromName           = "mail.from_name"
	KeyMailSubject            = "mail.subject"
	KeyMailBody               = "mail.body"
	KeyMailCC                 = "mail.cc"
	KeyMailBCC                = "mail.bcc"
	KeyStorageDB              = "storage.db"
)

type Config struct {
	Report    ReportConfig    `mapstructure:"report"`
	Directory DirectoryConfig `mapstructure:"directory"`
	Mail      MailConfig      `mapstructure:"mail"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

type ReportConfig struct {
	Template         string   `mapstructure:"template"`
	OutputDir        string   `mapstructure:"output_dir"`
	Sheet            string   `mapstructure:"sheet"`
	StartIndex       int      `mapstructure:"start_index" validate:"min=0"`
	Count            int      `mapstructure:"count" validate:"min=1"`
	Supplements      []string `mapstructure:"supplements"`
	SupplementColumn string   `mapstructure:"supplement_column" validate:"required"`
	RegeneratedSheet string   `mapstructure:"regenerated_sheet"`
	WideSheet        string   `mapstructure:"wide_sheet"`
}

type DirectoryConfig struct {
	Path string `mapstructure:"path"`
}

type MailConfig struct {
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from" validate:"omitempty,email"`
	FromName string   `mapstructure:"from_name"`
	Subject  string   `mapstructure:"subject"`
	Body     string   `mapstructure:"body"`
	CC       []string `mapstructure:"cc" validate:"dive,email"`
	BCC      []string `mapstructure:"bcc" validate:"dive,email"`
}

// Configured reports whether an SMTP relay is set up.
func (m MailConfig) Configured() bool {
	return strings.TrimSpace(m.Host) != ""
}

type StorageConfig struct {
	DB string `mapstructure:"db" validate:"required"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# comptesupport configuration
report:
  template: "./MODELE COMPTE SUPPORT.xlsx"
  output_dir: "./comptes"
  sheet: ""
  start_index: 0
  count: 3
  supplements:
    - "ENCOURS"
    - "ECHEANCIER"
  supplement_column: "NOM DU PARTENAIRE"
  regenerated_sheet: "ENCOURS"
  wide_sheet: "ECHEANCIER"

directory:
  path: "./partenaires.xlsx"

# Secrets may also come from .env or the environment (MAIL_PASSWORD).
mail:
  host: ""
  port: 587
  username: ""
  password: ""
  from: ""
  from_name: "Service Comptable"
  subject: "Compte support {{.Partner}}"
  body: |
    Bonjour,

    Veuillez trouver ci-joint le document {{.File}}.

    Cordialement,
  cc: []
  bcc: []

storage:
  db: "./comptesupport.db"
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateSupplements(cfg.Report); err != nil {
		return nil, err
	}
	if err := validateMail(cfg.Mail); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyReportSheet, "")
	v.SetDefault(KeyReportStartIndex, 0)
	v.SetDefault(KeyReportCount, 3)
	v.SetDefault(KeyReportSupplements, []string{})
	v.SetDefault(KeyReportSupplementColumn, "NOM DU PARTENAIRE")
	v.SetDefault(KeyReportRegeneratedSheet, "")
	v.SetDefault(KeyReportWideSheet, "")
	v.SetDefault(KeyDirectoryPath, "")
	v.SetDefault(KeyMailHost, "")
	v.SetDefault(KeyMailPort, 587)
	v.SetDefault(KeyMailUsername, "")
	v.SetDefault(KeyMailPassword, "")
	v.SetDefault(KeyMailFrom, "")
	v.SetDefault(KeyMailFromName, "")
	v.SetDefault(KeyMailSubject, "")
	v.SetDefault(KeyMailBody, "")
	v.SetDefault(KeyMailCC, []string{})
	v.SetDefault(KeyMailBCC, []string{})
	v.SetDefault(KeyStorageDB, "./comptesupport.db")
}

func validateSupplements(report ReportConfig) error {
	seen := make(map[string]struct{}, len(report.Supplements))
	for i, sheet := range report.Supplements {
		name := strings.TrimSpace(sheet)
		if name == "" {
			return fmt.Errorf("validation failed: report.supplements[%d] is empty", i)
		}
		key := strings.ToLower(name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate supplement sheet %q", name)
		}
		seen[key] = struct{}{}
	}

	for key, sheet := range map[string]string{
		KeyReportRegeneratedSheet: report.RegeneratedSheet,
		KeyReportWideSheet:        report.WideSheet,
	} {
		name := strings.TrimSpace(sheet)
		if name == "" {
			continue
		}
		if _, listed := seen[strings.ToLower(name)]; !listed {
			return fmt.Errorf("validation failed: %s %q is not listed in report.supplements", key, name)
		}
	}
	return nil
}

func validateMail(mail MailConfig) error {
	if !mail.Configured() {
		return nil
	}
	if strings.TrimSpace(mail.From) == "" {
		return fmt.Errorf("validation failed: %s is required when %s is set", KeyMailFrom, KeyMailHost)
	}
	if strings.TrimSpace(mail.Username) != "" && mail.Password == "" {
		return fmt.Errorf("validation failed: %s requires %s", KeyMailUsername, KeyMailPassword)
	}
	return nil
}
