// Package config loads runtime options for the dataset generator.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config captures all runtime options for a generation run.
type Config struct {
	Seed             int64         `yaml:"seed"`
	AsOf             string        `yaml:"as_of"`
	SkipTransactions bool          `yaml:"skip_transactions"`
	Inputs           Inputs        `yaml:"inputs"`
	Output           Output        `yaml:"output"`
	Population       Population    `yaml:"population"`
	Ages             Ages          `yaml:"ages"`
	Accounts         Accounts      `yaml:"accounts"`
	Cards            Cards         `yaml:"cards"`
	Simulator        Simulator     `yaml:"simulator"`
	Load             LoadTarget    `yaml:"load"`
	Storage          StorageConfig `yaml:"storage"`
	Logging          Logging       `yaml:"logging"`
}

// Inputs holds the seed file paths.
type Inputs struct {
	Country   string `yaml:"country"`
	Customers string `yaml:"customers"`
	Questions string `yaml:"questions"`
	Stores    string `yaml:"stores"`
}

// Output controls where generated SQL is written.
type Output struct {
	Dir             string `yaml:"dir"`
	EntityFile      string `yaml:"entity_file"`
	TransactionFile string `yaml:"transaction_file"`
	Archive         bool   `yaml:"archive"`
	Validate        bool   `yaml:"validate"`
}

// Population sets what fraction of customers receive each role, in percent.
type Population struct {
	EmployeePercent int `yaml:"employee_percent"`
	OnlinePercent   int `yaml:"online_percent"`
	OfflinePercent  int `yaml:"offline_percent"`
}

// Ages bounds customer and employee ages in years.
type Ages struct {
	CustomerMin int `yaml:"customer_min"`
	CustomerMax int `yaml:"customer_max"`
	EmployeeMin int `yaml:"employee_min"`
}

// Accounts configures offline account generation.
type Accounts struct {
	BalanceMin      int       `yaml:"balance_min"`
	BalanceMax      int       `yaml:"balance_max"`
	CheckingPercent int       `yaml:"checking_percent"`
	ClosePercent    int       `yaml:"close_percent"`
	MonthlyFees     []float64 `yaml:"monthly_fees"`
	OnlineEpoch     string    `yaml:"online_epoch"`
	RecoveryCount   int       `yaml:"recovery_count"`
}

// Cards configures card reissue windows.
type Cards struct {
	ReissueYears int `yaml:"reissue_years"`
}

// Simulator configures the per-account transaction walk.
type Simulator struct {
	PayPeriodDays      int `yaml:"pay_period_days"`
	FeePeriodDays      int `yaml:"fee_period_days"`
	StepDaysMax        int `yaml:"step_days_max"`
	PurchasesPerDayMax int `yaml:"purchases_per_day_max"`
	PendingWindowDays  int `yaml:"pending_window_days"`
	PayLowerMin        int `yaml:"pay_lower_min"`
	PayLowerMax        int `yaml:"pay_lower_max"`
	PayUpperMin        int `yaml:"pay_upper_min"`
	PayUpperMax        int `yaml:"pay_upper_max"`
}

// LoadTarget configures the optional load of generated SQL into MySQL.
type LoadTarget struct {
	Enabled  bool   `yaml:"enabled"`
	DSN      string `yaml:"dsn"`
	Database string `yaml:"database"`
}

// Logging controls stdout logging behavior.
type Logging struct {
	Verbose bool `yaml:"verbose"`
}

// StorageConfig holds external storage settings.
type StorageConfig struct {
	S3  S3Config  `yaml:"s3"`
	GCS GCSConfig `yaml:"gcs"`
}

// CloudEnabled reports whether any cloud storage backend is enabled.
func (s StorageConfig) CloudEnabled() bool {
	return s.GCS.Enabled || s.S3.Enabled
}

// S3Config configures S3 uploads (legacy and S3-compatible endpoints).
type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// GCSConfig configures GCS uploads.
type GCSConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

// Load reads configuration from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := normalizeConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Inputs: Inputs{
			Country:   "data/in-state.txt",
			Customers: "data/in-name.txt",
			Questions: "data/in-recovery.txt",
			Stores:    "data/in-store.txt",
		},
		Output: Output{
			Dir:             "data",
			EntityFile:      "query.sql",
			TransactionFile: "query-trans.sql",
			Validate:        true,
		},
		Population: Population{
			EmployeePercent: 25,
			OnlinePercent:   30,
			OfflinePercent:  80,
		},
		Ages: Ages{
			CustomerMin: 18,
			CustomerMax: 70,
			EmployeeMin: 21,
		},
		Accounts: Accounts{
			BalanceMin:      25,
			BalanceMax:      1000,
			CheckingPercent: 75,
			ClosePercent:    50,
			MonthlyFees:     []float64{5.99, 9.99, 7.50, 0, 0},
			OnlineEpoch:     "2000-01-01",
			RecoveryCount:   3,
		},
		Cards: Cards{ReissueYears: 3},
		Simulator: Simulator{
			PayPeriodDays:      14,
			FeePeriodDays:      31,
			StepDaysMax:        5,
			PurchasesPerDayMax: 2,
			PendingWindowDays:  5,
			PayLowerMin:        175,
			PayLowerMax:        225,
			PayUpperMin:        400,
			PayUpperMax:        550,
		},
		Load: LoadTarget{
			DSN:      "root:@tcp(127.0.0.1:3306)/",
			Database: "bankgen",
		},
	}
}

func normalizeConfig(cfg *Config) error {
	clampPercent(&cfg.Population.EmployeePercent)
	clampPercent(&cfg.Population.OnlinePercent)
	clampPercent(&cfg.Population.OfflinePercent)
	clampPercent(&cfg.Accounts.CheckingPercent)
	clampPercent(&cfg.Accounts.ClosePercent)
	if cfg.Ages.CustomerMin <= 0 {
		cfg.Ages.CustomerMin = 18
	}
	if cfg.Ages.CustomerMax < cfg.Ages.CustomerMin {
		cfg.Ages.CustomerMax = cfg.Ages.CustomerMin
	}
	if cfg.Ages.EmployeeMin < cfg.Ages.CustomerMin {
		cfg.Ages.EmployeeMin = cfg.Ages.CustomerMin
	}
	if cfg.Accounts.BalanceMax < cfg.Accounts.BalanceMin {
		cfg.Accounts.BalanceMax = cfg.Accounts.BalanceMin
	}
	if len(cfg.Accounts.MonthlyFees) == 0 {
		cfg.Accounts.MonthlyFees = Default().Accounts.MonthlyFees
	}
	if cfg.Accounts.RecoveryCount <= 0 {
		cfg.Accounts.RecoveryCount = 3
	}
	if cfg.Cards.ReissueYears <= 0 {
		cfg.Cards.ReissueYears = 3
	}
	if cfg.Simulator.PayPeriodDays <= 0 {
		cfg.Simulator.PayPeriodDays = 14
	}
	if cfg.Simulator.FeePeriodDays <= 0 {
		cfg.Simulator.FeePeriodDays = 31
	}
	if cfg.Simulator.StepDaysMax <= 0 {
		cfg.Simulator.StepDaysMax = 5
	}
	if cfg.Simulator.PurchasesPerDayMax <= 0 {
		cfg.Simulator.PurchasesPerDayMax = 2
	}
	if cfg.Simulator.PendingWindowDays < 0 {
		cfg.Simulator.PendingWindowDays = 0
	}
	if cfg.Output.EntityFile == "" {
		cfg.Output.EntityFile = "query.sql"
	}
	if cfg.Output.TransactionFile == "" {
		cfg.Output.TransactionFile = "query-trans.sql"
	}
	if _, err := cfg.OnlineEpoch(); err != nil {
		return err
	}
	if _, err := cfg.AsOfTime(); err != nil {
		return err
	}
	return nil
}

func clampPercent(p *int) {
	if *p < 0 {
		*p = 0
	}
	if *p > 100 {
		*p = 100
	}
}

// UpdateDatabaseInDSN replaces the database name in the DSN path with dbName.
// It preserves query parameters, if any.
func UpdateDatabaseInDSN(dsn string, dbName string) string {
	if dsn == "" || dbName == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
		return dsn[:slash+1] + dbName + dsn[query:]
	}
	return dsn[:slash+1] + dbName
}

// AdminDSN strips the database name from a DSN while preserving query parameters.
func AdminDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
		return dsn[:slash+1] + dsn[query:]
	}
	return dsn[:slash+1]
}

// AsOfTime resolves the frozen "now" snapshot for the run. An empty as_of
// means today. Every date comparison in the run uses this one value, so
// re-running on a later day with the same as_of reproduces identical output.
func (c Config) AsOfTime() (time.Time, error) {
	if c.AsOf == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", c.AsOf)
	if err != nil {
		return time.Time{}, errors.Errorf("bad as_of date %q (want YYYY-MM-DD)", c.AsOf)
	}
	return t.UTC(), nil
}

// OnlineEpoch resolves the earliest allowed online account creation date.
func (c Config) OnlineEpoch() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.Accounts.OnlineEpoch)
	if err != nil {
		return time.Time{}, errors.Errorf("bad online_epoch date %q (want YYYY-MM-DD)", c.Accounts.OnlineEpoch)
	}
	return t.UTC(), nil
}
