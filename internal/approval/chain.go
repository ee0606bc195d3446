package approval

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// Entry is one reviewer's recorded decision. Entries are append only; a chain
// never loses or rewrites history.
type Entry struct {
	ApproverEmployeeID string    `json:"approver_employee_id"`
	ApproverName       string    `json:"approver_name"`
	ApproverPosition   string    `json:"approver_position"`
	Status             string    `json:"status"`
	Comment            string    `json:"comment,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

// Chain is the full approval history of a request, stored as a JSONB column.
type Chain []Entry

func (c Chain) Value() (driver.Value, error) {
	if c == nil {
		c = Chain{}
	}
	return json.Marshal(c)
}

func (c *Chain) Scan(src any) error {
	if src == nil {
		*c = Chain{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("approval chain: unsupported scan source")
	}

	if len(data) == 0 {
		*c = Chain{}
		return nil
	}
	return json.Unmarshal(data, c)
}

func (c Chain) HasReviewer(employeeID string) bool {
	for _, e := range c {
		if e.ApproverEmployeeID == employeeID {
			return true
		}
	}
	return false
}

func (c Chain) Append(e Entry) Chain {
	return append(c, e)
}
