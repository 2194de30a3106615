package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// IDList is an ordered list of record identifiers stored as a JSON text
// column. Mutation helpers keep set semantics: Add never introduces a
// duplicate and Toggle flips membership exactly once per call.
type IDList []uint

// Value serializes the list for storage. A nil list is stored as [].
func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		l = IDList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan restores the list from its stored JSON form.
func (l *IDList) Scan(value interface{}) error {
	if value == nil {
		*l = IDList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported id list column type %T", value)
	}
}

// GormDataType tells the migrator to create a text column.
func (IDList) GormDataType() string {
	return "text"
}

// Contains reports membership of id.
func (l IDList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Add appends id unless it is already present.
func (l IDList) Add(id uint) IDList {
	if l.Contains(id) {
		return l
	}
	return append(l, id)
}

// Remove deletes every occurrence of id, preserving order of the rest.
func (l IDList) Remove(id uint) IDList {
	out := make(IDList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Toggle flips membership of id and reports whether it was added.
func (l IDList) Toggle(id uint) (IDList, bool) {
	if l.Contains(id) {
		return l.Remove(id), false
	}
	return append(l, id), true
}
