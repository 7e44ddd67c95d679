package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bankgen/internal/config"
	"bankgen/internal/report"
)

func writeSeedFiles(t *testing.T, dir string) config.Inputs {
	t.Helper()
	country := strings.Join([]string{
		"1",
		"Texas",
		"2",
		"Austin",
		"73301",
		"Dallas",
		"75201",
		"4",
		"Main St",
		"Oak Ave",
		"Pine Rd",
		"Elm St",
	}, "\n") + "\n"

	var names strings.Builder
	names.WriteString("20\n")
	for i := 0; i < 20; i++ {
		gender := "M"
		if i%2 == 1 {
			gender = "F"
		}
		fmt.Fprintf(&names, "%s First%d Last%d\n", gender, i, i)
	}

	questions := strings.Join([]string{
		"3",
		"Favorite color?",
		"red,green,blue",
		"First pet's name?",
		"Rex,Whiskers",
		"City of birth?",
		"Austin,Dallas",
	}, "\n") + "\n"

	stores := strings.Join([]string{
		"1",
		"2",
		"grocery R 5.00,25.00",
		"Corner Grocer",
		"Fresh Mart",
	}, "\n") + "\n"

	in := config.Inputs{
		Country:   filepath.Join(dir, "in-state.txt"),
		Customers: filepath.Join(dir, "in-name.txt"),
		Questions: filepath.Join(dir, "in-recovery.txt"),
		Stores:    filepath.Join(dir, "in-store.txt"),
	}
	for path, content := range map[string]string{
		in.Country:   country,
		in.Customers: names.String(),
		in.Questions: questions,
		in.Stores:    stores,
	} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return in
}

func testConfig(t *testing.T, seed int64) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = seed
	cfg.AsOf = "2020-06-01"
	cfg.Inputs = writeSeedFiles(t, t.TempDir())
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t, 1)
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	entity, err := os.ReadFile(filepath.Join(cfg.Output.Dir, cfg.Output.EntityFile))
	if err != nil {
		t.Fatalf("read entity file: %v", err)
	}
	for _, table := range []string{"Customer", "Employee", "Account_Online", "Recovery_Question", "Account", "Account_Owner", "Card"} {
		if !strings.Contains(string(entity), "INSERT INTO `"+table+"`") {
			t.Fatalf("entity file missing %s inserts", table)
		}
	}
	trans, err := os.ReadFile(filepath.Join(cfg.Output.Dir, cfg.Output.TransactionFile))
	if err != nil {
		t.Fatalf("read transaction file: %v", err)
	}
	if !strings.Contains(string(trans), "INSERT INTO `Transaction`") {
		t.Fatalf("transaction file has no inserts")
	}

	raw, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "manifest.json"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m report.Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if m.Seed != 1 || m.AsOf != "2020-06-01" {
		t.Fatalf("manifest=%+v", m)
	}
	if m.Counts.Customers != 20 || m.Counts.Employees != 5 || m.Counts.Online != 6 || m.Counts.Offline != 16 {
		t.Fatalf("counts=%+v", m.Counts)
	}
	if m.Counts.Branches != 1 || m.Counts.Stores != 2 {
		t.Fatalf("counts=%+v", m.Counts)
	}
	// Every offline account deposits its opening balance.
	if m.Counts.Transactions < m.Counts.Offline {
		t.Fatalf("transactions=%d, want at least %d", m.Counts.Transactions, m.Counts.Offline)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	inputs := writeSeedFiles(t, t.TempDir())
	outputs := [2]string{}
	for i := range outputs {
		cfg := config.Default()
		cfg.Seed = 7
		cfg.AsOf = "2020-06-01"
		cfg.Inputs = inputs
		cfg.Output.Dir = t.TempDir()
		cfg.Output.Validate = false
		r, err := New(cfg)
		if err != nil {
			t.Fatalf("new runner: %v", err)
		}
		if err := r.Run(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		data, err := os.ReadFile(filepath.Join(cfg.Output.Dir, cfg.Output.EntityFile))
		if err != nil {
			t.Fatalf("read entity file: %v", err)
		}
		outputs[i] = string(data)
	}
	if outputs[0] != outputs[1] {
		t.Fatalf("same seed produced different entity output")
	}
}

func TestRunSkipTransactions(t *testing.T) {
	cfg := testConfig(t, 3)
	cfg.SkipTransactions = true
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Output.Dir, cfg.Output.TransactionFile)); !os.IsNotExist(err) {
		t.Fatalf("transaction file written despite skip")
	}
	raw, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "manifest.json"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m report.Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if m.Counts.Transactions != 0 || m.TransactionFile != "" {
		t.Fatalf("manifest=%+v", m)
	}
}
