package model

import "fmt"

// Entities groups every declared entity of a network by class, mirroring
// the shape model building consumes: buses, simple transformers, CHPs.
type Entities struct {
	Buses        []*Bus
	Transformers []*Transformer
	CHPs         []*CHP
}

// Components returns all conversion components in declaration order,
// transformers first. Edge derivation over this slice is deterministic.
func (e *Entities) Components() []Component {
	out := make([]Component, 0, len(e.Transformers)+len(e.CHPs))
	for _, t := range e.Transformers {
		out = append(out, t)
	}
	for _, c := range e.CHPs {
		out = append(out, c)
	}
	return out
}

// Validate checks every component's configuration and rejects duplicate
// ids across buses and components. It runs before any constraint is
// generated so a broken network never yields a partial model.
func (e *Entities) Validate() error {
	seen := make(map[string]bool, len(e.Buses)+len(e.Transformers)+len(e.CHPs))
	for _, b := range e.Buses {
		if b.ID == "" {
			return &ConfigError{ComponentID: "", Reason: "bus with empty id"}
		}
		if seen[b.ID] {
			return &ConfigError{ComponentID: b.ID, Reason: "duplicate id"}
		}
		seen[b.ID] = true
	}
	for _, c := range e.Components() {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.UID()] {
			return &ConfigError{ComponentID: c.UID(), Reason: "duplicate id"}
		}
		seen[c.UID()] = true
	}
	return nil
}

// HasID reports whether id names a declared bus or component.
func (e *Entities) HasID(id string) bool {
	for _, b := range e.Buses {
		if b.ID == id {
			return true
		}
	}
	for _, t := range e.Transformers {
		if t.ID == id {
			return true
		}
	}
	for _, c := range e.CHPs {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Bus returns the declared bus with the given id.
func (e *Entities) Bus(id string) (*Bus, error) {
	for _, b := range e.Buses {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, fmt.Errorf("unknown bus %q", id)
}
