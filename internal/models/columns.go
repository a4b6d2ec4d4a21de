package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/pricing"
)

// StringList is a jsonb array of strings.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	return string(b), err
}

func (l *StringList) Scan(src any) error {
	b, err := columnBytes(src)
	if err != nil || len(b) == 0 {
		*l = nil
		return err
	}
	return json.Unmarshal(b, (*[]string)(l))
}

// Quantities is a jsonb map of service to how many times it is included.
type Quantities map[service.Type]int

func (q Quantities) Value() (driver.Value, error) {
	if q == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[service.Type]int(q))
	return string(b), err
}

func (q *Quantities) Scan(src any) error {
	b, err := columnBytes(src)
	if err != nil || len(b) == 0 {
		*q = nil
		return err
	}
	return json.Unmarshal(b, (*map[service.Type]int)(q))
}

// ExtraServices stores itemized extras in the nested shape. Reads go through
// pricing.DecodeExtraServices, so rows written in the legacy flat shape load normally.
type ExtraServices struct {
	pricing.ExtraServices
}

func (e ExtraServices) Value() (driver.Value, error) {
	b, err := json.Marshal(e.ExtraServices)
	return string(b), err
}

func (e *ExtraServices) Scan(src any) error {
	b, err := columnBytes(src)
	if err != nil {
		return err
	}
	decoded, err := pricing.DecodeExtraServices(b)
	if err != nil {
		return err
	}
	e.ExtraServices = decoded
	return nil
}

func columnBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", src)
	}
}
