package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOperator     Role = "operator"
	RolePractitioner Role = "practitioner"
	RoleAccount      Role = "account"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleOperator, RolePractitioner, RoleAccount:
		return true
	}
	return false
}

// Address is stored as a JSON document on accounts and practitioners.
type Address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

func (a Address) IsZero() bool {
	return strings.TrimSpace(a.Line1) == "" && strings.TrimSpace(a.Line2) == ""
}

func (a Address) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *Address) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Address{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return fmt.Errorf("unsupported address column type %T", src)
}

// Claims identifies the caller behind a verified token. Operators are
// identified by Email only; the other roles by SubjectID.
type Claims struct {
	SubjectID uuid.UUID
	Email     string
	Role      Role
}
