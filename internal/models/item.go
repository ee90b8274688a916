// Package models defines the domain types shared by the server and the UI.
package models

import (
	"encoding/json"
	"fmt"
)

// ItemType distinguishes selector entries. Only ItemFile is produced today;
// ItemCommand is reserved.
type ItemType int

const (
	ItemFile ItemType = iota
	ItemCommand
)

func (t ItemType) String() string {
	switch t {
	case ItemCommand:
		return "Command"
	default:
		return "File"
	}
}

// MarshalJSON encodes the type by name ("File" or "Command").
func (t ItemType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes "File" or "Command".
func (t *ItemType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "File":
		*t = ItemFile
	case "Command":
		*t = ItemCommand
	default:
		return fmt.Errorf("unknown item type %q", s)
	}
	return nil
}

// Item is one entry in the selector list.
type Item struct {
	Name     string   `json:"name"`
	ItemType ItemType `json:"item_type"`
}

// FileItem returns a File item for the given note name.
func FileItem(name string) Item {
	return Item{Name: name, ItemType: ItemFile}
}
