package loan

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Note is a reviewer remark on a loan application, kept separate from the
// approval chain so remarks never gate a status transition.
type Note struct {
	AuthorEmployeeID string    `json:"author_employee_id"`
	AuthorName       string    `json:"author_name"`
	Content          string    `json:"content"`
	CreatedAt        time.Time `json:"created_at"`
}

// Notes is stored as a JSONB column.
type Notes []Note

func (n Notes) Value() (driver.Value, error) {
	if n == nil {
		n = Notes{}
	}
	return json.Marshal(n)
}

func (n *Notes) Scan(src any) error {
	if src == nil {
		*n = Notes{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("loan notes: unsupported scan source")
	}

	if len(data) == 0 {
		*n = Notes{}
		return nil
	}
	return json.Unmarshal(data, n)
}
