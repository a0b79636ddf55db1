package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

const (
	WarehousePending  = "EP"
	WarehouseOK       = "Ok"
	WarehouseUnbuilt  = "Sin producir"
	maxPanelListItems = 50
)

var warehouseStates = []string{WarehousePending, WarehouseOK, WarehouseUnbuilt}

// Panel is the per-order control panel shared by hall, kitchen and
// logistics. Staff references are personnel ids.
type Panel struct {
	// hall
	HallProducer      string   `json:"hall_producer"`
	PMReview          bool     `json:"pm_review"`
	HeadWaiter        string   `json:"head_waiter"`
	Waiters           []string `json:"waiters"`
	EventLogistics    string   `json:"event_logistics"`
	ExternalWaiters   int      `json:"external_waiters"`
	ExternalLogistics int      `json:"external_logistics"`
	TempAgencyOrder   bool     `json:"temp_agency_order"`
	IceOrder          bool     `json:"ice_order"`
	TransportOrder    bool     `json:"transport_order"`

	// kitchen
	HeadChef      string   `json:"head_chef"`
	KitchenStaff  []string `json:"kitchen_staff"`
	ExternalCooks int      `json:"external_cooks"`
	MenuUpdated   bool     `json:"menu_updated"`
	KitchenOrder  bool     `json:"kitchen_order"`
	ExtraServices []string `json:"extra_services"`

	// logistics
	WarehouseState string   `json:"warehouse_state"`
	Porter         string   `json:"porter"`
	Transport      []string `json:"transport"`
	PickupPreEvent string   `json:"pickup_pre_event"`
	UnloadAtEvent  string   `json:"unload_at_event"`
	RentalLaunched bool     `json:"rental_launched"`
}

func DefaultPanel() Panel {
	var p Panel
	p.Normalize()
	return p
}

// Normalize trims ids, drops empty list entries and maps legacy warehouse
// values ("" and "Pendiente") to EP. Lists are never nil afterwards so the
// stored document and diffs stay stable.
func (p *Panel) Normalize() {
	for _, s := range []*string{&p.HallProducer, &p.HeadWaiter, &p.EventLogistics, &p.HeadChef, &p.Porter, &p.PickupPreEvent, &p.UnloadAtEvent} {
		*s = strings.TrimSpace(*s)
	}
	p.Waiters = compactIDs(p.Waiters)
	p.KitchenStaff = compactIDs(p.KitchenStaff)
	p.ExtraServices = compactIDs(p.ExtraServices)
	p.Transport = compactIDs(p.Transport)

	p.WarehouseState = strings.TrimSpace(p.WarehouseState)
	if p.WarehouseState == "" || p.WarehouseState == "Pendiente" {
		p.WarehouseState = WarehousePending
	}
}

func compactIDs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (p Panel) Validate() error {
	verr := &ValidationError{}

	if p.ExternalWaiters < 0 {
		verr.add("external_waiters", "must not be negative")
	}
	if p.ExternalLogistics < 0 {
		verr.add("external_logistics", "must not be negative")
	}
	if p.ExternalCooks < 0 {
		verr.add("external_cooks", "must not be negative")
	}
	if !slices.Contains(warehouseStates, p.WarehouseState) {
		verr.add("warehouse_state", fmt.Sprintf("must be one of %s", strings.Join(warehouseStates, ", ")))
	}
	for field, list := range map[string][]string{
		"waiters":        p.Waiters,
		"kitchen_staff":  p.KitchenStaff,
		"extra_services": p.ExtraServices,
		"transport":      p.Transport,
	} {
		if len(list) > maxPanelListItems {
			verr.add(field, fmt.Sprintf("must have at most %d items", maxPanelListItems))
		}
	}

	if p.TempAgencyOrder && p.ExternalWaiters == 0 && p.ExternalLogistics == 0 {
		verr.add("external_waiters", "a temp agency order needs at least one external waiter or logistics worker")
	}
	if len(p.Transport) > 0 && p.PickupPreEvent == "" {
		verr.add("pickup_pre_event", "transport needs a pre-event pickup time")
	}
	if p.KitchenOrder && p.HeadChef == "" {
		verr.add("head_chef", "a kitchen order needs a head chef")
	}

	slices.SortStableFunc(verr.Problems, func(a, b FieldProblem) int { return strings.Compare(a.Field, b.Field) })
	return verr.orNil()
}

// Warnings lists inconsistencies worth showing but not worth rejecting.
func (p Panel) Warnings() []string {
	var w []string
	if p.PMReview && p.HeadWaiter == "" {
		w = append(w, "PM review enabled without a head waiter")
	}
	if p.TempAgencyOrder && p.ExternalWaiters == 0 && p.ExternalLogistics == 0 {
		w = append(w, "temp agency order without external staff")
	}
	if p.ExternalWaiters > 0 && p.EventLogistics == "" {
		w = append(w, "external waiters without event logistics")
	}
	if p.KitchenOrder && p.HeadChef == "" {
		w = append(w, "kitchen order without a head chef")
	}
	if p.ExternalCooks > 0 && len(p.KitchenStaff) == 0 {
		w = append(w, "external cooks without in-house kitchen staff")
	}
	if p.MenuUpdated && len(p.KitchenStaff) == 0 {
		w = append(w, "menu marked updated without kitchen staff")
	}
	if len(p.Transport) > 0 && p.PickupPreEvent == "" {
		w = append(w, "transport without a pre-event pickup time")
	}
	if len(p.Transport) > 0 && p.UnloadAtEvent == "" {
		w = append(w, "transport without an unload time at the event")
	}
	if p.WarehouseState == WarehouseOK && p.Porter == "" {
		w = append(w, "warehouse ok without a porter")
	}
	if p.RentalLaunched && len(p.Transport) == 0 {
		w = append(w, "rental launched without transport")
	}
	return w
}

// DiffPanels compares two panels field by field on their JSON form and
// returns the changes sorted by field name.
func DiffPanels(before, after Panel) ([]FieldChange, error) {
	oldFields, err := panelFields(before)
	if err != nil {
		return nil, err
	}
	newFields, err := panelFields(after)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(newFields))
	for k := range newFields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var changes []FieldChange
	for _, k := range keys {
		if bytes.Equal(oldFields[k], newFields[k]) {
			continue
		}
		changes = append(changes, FieldChange{
			Field:    k,
			OldValue: oldFields[k],
			NewValue: newFields[k],
		})
	}
	return changes, nil
}

func panelFields(p Panel) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal panel: %w", err)
	}
	out := make(map[string]json.RawMessage)
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("split panel fields: %w", err)
	}
	return out, nil
}
