package batch

import (
	"encoding/json"
	"fmt"
	"os"

	"NewsAnalyzer/internal/domain"
)

// triggerPayload mirrors the inbound invocation JSON. Companies arrive either
// as {"name","id"} objects or as ["name","id"] pairs; both forms occur in
// historical trigger files and both decode.
type triggerPayload struct {
	BatchNumber int               `json:"batch_number"`
	Companies   []json.RawMessage `json:"companies"`
}

// Load reads and parses a batch trigger file.
func Load(path string) (domain.BatchTrigger, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.BatchTrigger{}, fmt.Errorf("read trigger %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a trigger payload.
func Parse(raw []byte) (domain.BatchTrigger, error) {
	var payload triggerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.BatchTrigger{}, fmt.Errorf("parse trigger: %w", err)
	}

	trigger := domain.BatchTrigger{BatchID: payload.BatchNumber}
	for i, entry := range payload.Companies {
		company, err := parseCompany(entry)
		if err != nil {
			return domain.BatchTrigger{}, fmt.Errorf("parse trigger company %d: %w", i, err)
		}
		trigger.Companies = append(trigger.Companies, company)
	}
	return trigger, nil
}

func parseCompany(raw json.RawMessage) (domain.Company, error) {
	var obj struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && (obj.Name != "" || obj.ID != "") {
		return domain.Company{Name: obj.Name, ID: obj.ID}, nil
	}

	var pair []string
	if err := json.Unmarshal(raw, &pair); err != nil {
		return domain.Company{}, fmt.Errorf("unrecognized company shape")
	}
	if len(pair) != 2 {
		return domain.Company{}, fmt.Errorf("company pair must have 2 elements, got %d", len(pair))
	}
	return domain.Company{Name: pair[0], ID: pair[1]}, nil
}
