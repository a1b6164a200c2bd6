package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type Task struct {
	ID            int          `json:"id"`
	Title         string       `json:"title"`
	Description   *string      `json:"description,omitempty"`
	Status        TaskStatus   `json:"status"`
	Priority      TaskPriority `json:"priority"`
	AssignedToID  *int         `json:"assigned_to_id,omitempty"`
	CreatedByID   int          `json:"created_by_id"`
	DueDate       *time.Time   `json:"due_date,omitempty"`
	CompletedDate *time.Time   `json:"completed_date,omitempty"`
	EventID       *int         `json:"event_id,omitempty"`

	// ChecklistItems хранится в БД одной текстовой колонкой (JSON-массив строк).
	ChecklistItems []string `json:"checklist_items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EncodeStringList сериализует список в текст для хранения; пустой список хранится как NULL.
func EncodeStringList(items []string) (*string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode list: %w", err)
	}
	s := string(raw)
	return &s, nil
}

// DecodeStringList - обратная операция к EncodeStringList. NULL даёт пустой список.
func DecodeStringList(raw *string) ([]string, error) {
	if raw == nil || *raw == "" {
		return []string{}, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(*raw), &items); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}
