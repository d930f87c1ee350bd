package classify

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Verdict is a ProcessedEmail stored as JSONB so persistence layers can
// replay a classification without reprocessing the email.
type Verdict ProcessedEmail

// Value implements driver.Valuer for JSONB storage.
func (v Verdict) Value() (driver.Value, error) {
	return json.Marshal(v)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (v *Verdict) Scan(src any) error {
	if src == nil {
		*v = Verdict{}
		return nil
	}

	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("verdict: expected []byte, got %T", src)
	}

	return json.Unmarshal(data, v)
}
