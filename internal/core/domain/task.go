package domain

import (
	"encoding/json"
	"slices"
	"time"
)

type TaskStatus string

const (
	TaskPending TaskStatus = "pending"
	TaskDone    TaskStatus = "done"
)

type Task struct {
	ID        string     `json:"id"`
	OrderRef  string     `json:"os_id"`
	Title     string     `json:"title"`
	Role      string     `json:"role"`
	Status    TaskStatus `json:"status"`
	Automatic bool       `json:"automatic"`
	CreatedAt time.Time  `json:"created_at"`
}

// TaskRule creates a task when a panel field changes to TriggerValue.
type TaskRule struct {
	ID           string `json:"id"`
	TriggerField string `json:"trigger_field"`
	TriggerValue string `json:"trigger_value"`
	TaskTitle    string `json:"task_title"`
	TaskRole     string `json:"task_role"`
}

// Fires reports whether the rule applies to a change. List fields fire when
// the new list contains the trigger value; scalars compare on their string
// form, so "true" matches a boolean flag being switched on.
func (r TaskRule) Fires(c FieldChange) bool {
	if r.TriggerField != c.Field {
		return false
	}

	var v any
	if err := json.Unmarshal(c.NewValue, &v); err != nil {
		return false
	}

	switch nv := v.(type) {
	case []any:
		return slices.ContainsFunc(nv, func(item any) bool { return scalarString(item) == r.TriggerValue })
	default:
		return scalarString(nv) == r.TriggerValue
	}
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
