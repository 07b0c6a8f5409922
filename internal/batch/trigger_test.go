package batch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseObjectCompanies(t *testing.T) {
	t.Parallel()

	trigger, err := Parse([]byte(`{
		"batch_number": 42,
		"companies": [
			{"name": "Acme Corp", "id": "c1"},
			{"name": "Globex", "id": "c2"}
		]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if trigger.BatchID != 42 {
		t.Errorf("BatchID = %d, want 42", trigger.BatchID)
	}
	if len(trigger.Companies) != 2 {
		t.Fatalf("companies = %d, want 2", len(trigger.Companies))
	}
	if trigger.Companies[0].Name != "Acme Corp" || trigger.Companies[0].ID != "c1" {
		t.Errorf("company[0] = %+v", trigger.Companies[0])
	}
}

func TestParsePairCompanies(t *testing.T) {
	t.Parallel()

	trigger, err := Parse([]byte(`{
		"batch_number": 1,
		"companies": [["Acme Corp", "c1"]]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(trigger.Companies) != 1 {
		t.Fatalf("companies = %d, want 1", len(trigger.Companies))
	}
	if trigger.Companies[0].Name != "Acme Corp" || trigger.Companies[0].ID != "c1" {
		t.Errorf("company[0] = %+v", trigger.Companies[0])
	}
}

func TestParseMissingBatchNumberIsZero(t *testing.T) {
	t.Parallel()

	trigger, err := Parse([]byte(`{"companies": [["Acme Corp", "c1"]]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if trigger.BatchID != 0 {
		t.Errorf("BatchID = %d, want 0 (derived later)", trigger.BatchID)
	}
}

func TestParseRejectsMalformedCompany(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte(`{"companies": [["only-name"]]}`)); err == nil {
		t.Fatal("expected error for 1-element pair")
	}
	if _, err := Parse([]byte(`{"companies": [42]}`)); err == nil {
		t.Fatal("expected error for numeric company entry")
	}
	if _, err := Parse([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoadReadsTriggerFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trigger.json")
	payload := `{"batch_number": 3, "companies": [{"name": "Acme Corp", "id": "c1"}]}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	trigger, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if trigger.BatchID != 3 || len(trigger.Companies) != 1 {
		t.Errorf("trigger = %+v", trigger)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
