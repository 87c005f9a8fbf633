package utils

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// RepairJSON returns body unchanged when it is already valid JSON. Otherwise
// it runs jsonrepair over it (trailing commas, single quotes, unquoted keys,
// truncated objects) and returns the repaired bytes. The repaired output is
// guaranteed to be valid JSON; it is not guaranteed to have any particular
// shape, so callers must still validate it.
func RepairJSON(body []byte) ([]byte, error) {
	if json.Valid(body) {
		return body, nil
	}

	repaired, err := jsonrepair.JSONRepair(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to repair JSON: %w", err)
	}

	if !json.Valid([]byte(repaired)) {
		return nil, fmt.Errorf("repaired JSON is still invalid")
	}

	return []byte(repaired), nil
}
