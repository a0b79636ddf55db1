package domain

import (
	"encoding/json"
	"time"
)

type PanelTab string

const (
	TabGeneral   PanelTab = "General"
	TabSpace     PanelTab = "Espacio"
	TabHall      PanelTab = "Sala"
	TabKitchen   PanelTab = "Cocina"
	TabLogistics PanelTab = "Logística"
	TabStaff     PanelTab = "Personal"
)

// FieldChange holds the JSON encoding of a field before and after a save.
type FieldChange struct {
	Field    string          `json:"field"`
	OldValue json.RawMessage `json:"old_value"`
	NewValue json.RawMessage `json:"new_value"`
}

// ChangeLog is one audit entry for a panel save. OrderRef is whatever the
// os_id column holds: new rows carry the surrogate key, legacy rows may
// carry the human number.
type ChangeLog struct {
	ID          string        `json:"id"`
	OrderRef    string        `json:"os_id"`
	OrderNumber string        `json:"os_number,omitempty"`
	Actor       Actor         `json:"actor"`
	Tab         PanelTab      `json:"tab"`
	Changes     []FieldChange `json:"changes"`
	AutoSaved   bool          `json:"auto_saved"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Actor identifies who made a change. Authentication happens upstream.
type Actor struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

var SystemActor = Actor{ID: "system", Email: "system"}

func (a Actor) OrSystem() Actor {
	if a.ID == "" {
		return SystemActor
	}
	return a
}
