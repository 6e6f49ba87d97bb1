// Package registry manages the central registry of MCP server definitions.
//
// The registry is the single source of truth for server records, independent
// of any particular client. Records are created through the JSON editor flow
// or imported from client files, so they may carry fields this tool does not
// model (URLs, headers, permission blocks). Those fields round-trip intact.
package registry

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultType is the transport kind assumed when a record omits one.
const DefaultType = "stdio"

// ServerRecord is one centrally managed server definition. The record's name
// is the registry map key and is not duplicated inside the record.
type ServerRecord struct {
	Type    string            `json:"type"`
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`

	// Clients names the clients this server is synced to. Stale names
	// (clients no longer registered) are tolerated and simply never match.
	Clients []string `json:"clients"`

	// Enabled is tri-state: nil means unset, treated as enabled when the
	// record is projected into a client file.
	Enabled *bool `json:"enabled,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`

	// Extra holds fields the editor or an import produced that this tool
	// does not model. They are preserved byte-for-byte.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownFields are the record fields handled by the struct above; everything
// else lands in Extra.
var knownFields = map[string]bool{
	"type":       true,
	"command":    true,
	"args":       true,
	"env":        true,
	"clients":    true,
	"enabled":    true,
	"created_at": true,
	"updated_at": true,
}

// UnmarshalJSON decodes a record, diverting unknown fields into Extra.
func (r *ServerRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	type plain ServerRecord

	var known plain
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	*r = ServerRecord(known)

	for key, value := range fields {
		if knownFields[key] {
			continue
		}

		if r.Extra == nil {
			r.Extra = make(map[string]json.RawMessage)
		}

		r.Extra[key] = value
	}

	return nil
}

// MarshalJSON encodes the record with its Extra fields merged back in.
func (r ServerRecord) MarshalJSON() ([]byte, error) {
	fields, err := r.asMap()
	if err != nil {
		return nil, err
	}

	return json.Marshal(fields)
}

// asMap flattens the record into a single JSON object map. Fields that were
// never set stay absent: a record imported without args must not grow an
// "args": null on the way back out.
func (r ServerRecord) asMap() (map[string]json.RawMessage, error) {
	fields := make(map[string]json.RawMessage)

	put := func(key string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal field %q: %w", key, err)
		}

		fields[key] = data

		return nil
	}

	if r.Type != "" {
		if err := put("type", r.Type); err != nil {
			return nil, err
		}
	}

	if r.Command != "" {
		if err := put("command", r.Command); err != nil {
			return nil, err
		}
	}

	if r.Args != nil {
		if err := put("args", r.Args); err != nil {
			return nil, err
		}
	}

	if r.Env != nil {
		if err := put("env", r.Env); err != nil {
			return nil, err
		}
	}

	if r.Clients != nil {
		if err := put("clients", r.Clients); err != nil {
			return nil, err
		}
	}

	if r.Enabled != nil {
		if err := put("enabled", *r.Enabled); err != nil {
			return nil, err
		}
	}

	if !r.CreatedAt.IsZero() {
		if err := put("created_at", r.CreatedAt); err != nil {
			return nil, err
		}
	}

	if !r.UpdatedAt.IsZero() {
		if err := put("updated_at", r.UpdatedAt); err != nil {
			return nil, err
		}
	}

	for key, value := range r.Extra {
		if _, clash := fields[key]; clash {
			return nil, fmt.Errorf("extra field %q collides with a managed field", key)
		}

		fields[key] = value
	}

	return fields, nil
}

// ClientEntry projects the record to the shape written into a client file:
// the internal-only clients, created_at, and updated_at fields are dropped,
// and enabled defaults to true when the record leaves it unset.
func (r ServerRecord) ClientEntry() (map[string]json.RawMessage, error) {
	fields, err := r.asMap()
	if err != nil {
		return nil, err
	}

	delete(fields, "clients")
	delete(fields, "created_at")
	delete(fields, "updated_at")

	if _, ok := fields["enabled"]; !ok {
		fields["enabled"] = json.RawMessage("true")
	}

	return fields, nil
}

// TargetsClient reports whether the record addresses the named client.
func (r ServerRecord) TargetsClient(name string) bool {
	for _, c := range r.Clients {
		if c == name {
			return true
		}
	}

	return false
}

// IsEnabled reports the record's effective enabled state; an unset flag
// counts as enabled.
func (r ServerRecord) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// EffectiveType returns the record's transport kind, defaulting to stdio.
func (r ServerRecord) EffectiveType() string {
	if r.Type == "" {
		return DefaultType
	}

	return r.Type
}

// Template returns the skeleton record offered to the editor by 'add'.
func Template() ServerRecord {
	return ServerRecord{
		Type:    DefaultType,
		Command: "npx",
		Args:    []string{},
		Env:     map[string]string{},
		Clients: []string{},
	}
}
