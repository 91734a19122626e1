package domain

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON renders the bucket as a ["2006-01-02", n] pair.
func (p StatPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Date, p.Count})
}

// UnmarshalJSON accepts the pair form produced by MarshalJSON.
func (p *StatPoint) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("stat point: expected [date, count] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &p.Date); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &p.Count)
}
