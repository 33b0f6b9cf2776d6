package iceberg

import (
	"encoding/json"

	"github.com/big-rs-little-rs/rustberg/pkg/errors"
)

// Operation is a snapshot summary's required operation kind.
type Operation int

const (
	OpAppend Operation = iota
	OpReplace
	OpOverwrite
	OpDelete
)

var operationToName = map[Operation]string{
	OpAppend:    "append",
	OpReplace:   "replace",
	OpOverwrite: "overwrite",
	OpDelete:    "delete",
}

var nameToOperation = map[string]Operation{
	"append":    OpAppend,
	"replace":   OpReplace,
	"overwrite": OpOverwrite,
	"delete":    OpDelete,
}

func (o Operation) String() string { return operationToName[o] }

// Summary is a snapshot's flattened-map summary: the "operation" key is
// extracted into a typed field, and every other string-valued key is
// collected into Rest. Both are reconstituted at the same object level
// on emit.
type Summary struct {
	Operation Operation
	Rest      map[string]string
}

func (s Summary) MarshalJSON() ([]byte, error) {
	name, ok := operationToName[s.Operation]
	if !ok {
		return nil, errors.Newf(errors.Domain, "unknown summary operation %d", s.Operation)
	}
	flat := make(map[string]string, len(s.Rest)+1)
	for k, v := range s.Rest {
		flat[k] = v
	}
	flat["operation"] = name
	return json.Marshal(flat)
}

func (s *Summary) UnmarshalJSON(data []byte) error {
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return errors.New(errors.Structural, "malformed summary", err)
	}
	opName, ok := flat["operation"]
	if !ok {
		return errors.New(errors.Shape, "summary missing required operation key", nil)
	}
	op, ok := nameToOperation[opName]
	if !ok {
		return errors.Newf(errors.Domain, "unknown summary operation %q", opName)
	}
	// Rest stays nil when "operation" is the only key, so a Summary with no
	// extra keys round-trips to an equal value.
	var rest map[string]string
	for k, v := range flat {
		if k == "operation" {
			continue
		}
		if rest == nil {
			rest = make(map[string]string, len(flat))
		}
		rest[k] = v
	}
	s.Operation = op
	s.Rest = rest
	return nil
}

// SnapshotV2 is a format-version-2 snapshot record. No field is
// conditional on another.
type SnapshotV2 struct {
	SnapshotID       int64   `json:"snapshot-id"`
	ParentSnapshotID *int64  `json:"parent-snapshot-id,omitempty"`
	SequenceNumber   int64   `json:"sequence-number"`
	TimestampMs      int64   `json:"timestamp-ms"`
	Summary          Summary `json:"summary"`
	ManifestList     string  `json:"manifest-list"`
	SchemaID         *int32  `json:"schema-id,omitempty"`
}

// SnapshotV1 is a format-version-1 snapshot record. ManifestList and
// Manifests are mutually exclusive; at most one may be present. SchemaID
// is wider than V2's (int64 rather than int32) to tolerate either writer,
// per the original implementation this format was distilled from.
type SnapshotV1 struct {
	SnapshotID       int64    `json:"snapshot-id"`
	ParentSnapshotID *int64   `json:"parent-snapshot-id,omitempty"`
	TimestampMs      int64    `json:"timestamp-ms"`
	ManifestList     *string  `json:"manifest-list,omitempty"`
	Manifests        []string `json:"manifests,omitempty"`
	Summary          *Summary `json:"summary,omitempty"`
	SchemaID         *int64   `json:"schema-id,omitempty"`
}

// snapshotV1Alias has the identical field set to SnapshotV1. Marshaling
// through it from inside SnapshotV1's own methods avoids recursing back
// into those methods.
type snapshotV1Alias SnapshotV1

func (s *SnapshotV1) UnmarshalJSON(data []byte) error {
	var a snapshotV1Alias
	if err := json.Unmarshal(data, &a); err != nil {
		return errors.New(errors.Structural, "malformed v1 snapshot", err)
	}
	if a.ManifestList != nil && a.Manifests != nil {
		return errors.New(errors.Shape, "snapshot has both manifest-list and manifests", nil).
			AddContext("snapshot-id", a.SnapshotID)
	}
	*s = SnapshotV1(a)
	return nil
}

func (s SnapshotV1) MarshalJSON() ([]byte, error) {
	if s.ManifestList != nil && s.Manifests != nil {
		return nil, errors.New(errors.Shape, "snapshot has both manifest-list and manifests", nil).
			AddContext("snapshot-id", s.SnapshotID)
	}
	return json.Marshal(snapshotV1Alias(s))
}

// RefKind is the discriminant of a SnapshotRefV2's ref-type variant.
type RefKind int

const (
	RefBranch RefKind = iota
	RefTag
)

// RefType is the tagged variant carried by a SnapshotRefV2: Branch fields
// are meaningful only when Kind == RefBranch.
type RefType struct {
	Kind               RefKind
	MinSnapshotsToKeep *int32
	MaxSnapshotAgeMs   *int64
}

// SnapshotRefV2 is a named pointer to a snapshot: a branch or a tag.
type SnapshotRefV2 struct {
	SnapshotID  int64
	RefType     RefType
	MaxRefAgeMs *int64
}

type snapshotRefWire struct {
	SnapshotID         int64  `json:"snapshot-id"`
	Type               string `json:"type"`
	MinSnapshotsToKeep *int32 `json:"min-snapshots-to-keep,omitempty"`
	MaxSnapshotAgeMs   *int64 `json:"max-snapshot-age-ms,omitempty"`
	MaxRefAgeMs        *int64 `json:"max-ref-age-ms,omitempty"`
}

func (r *SnapshotRefV2) UnmarshalJSON(data []byte) error {
	var w snapshotRefWire
	if err := json.Unmarshal(data, &w); err != nil {
		return errors.New(errors.Structural, "malformed snapshot ref", err)
	}
	var kind RefKind
	switch w.Type {
	case "branch":
		kind = RefBranch
	case "tag":
		kind = RefTag
		if w.MinSnapshotsToKeep != nil || w.MaxSnapshotAgeMs != nil {
			return errors.New(errors.Shape, "tag ref must not carry branch-only fields", nil)
		}
	default:
		return errors.Newf(errors.Domain, "unknown ref type %q", w.Type)
	}
	r.SnapshotID = w.SnapshotID
	r.RefType = RefType{Kind: kind, MinSnapshotsToKeep: w.MinSnapshotsToKeep, MaxSnapshotAgeMs: w.MaxSnapshotAgeMs}
	r.MaxRefAgeMs = w.MaxRefAgeMs
	return nil
}

func (r SnapshotRefV2) MarshalJSON() ([]byte, error) {
	w := snapshotRefWire{SnapshotID: r.SnapshotID, MaxRefAgeMs: r.MaxRefAgeMs}
	switch r.RefType.Kind {
	case RefBranch:
		w.Type = "branch"
		w.MinSnapshotsToKeep = r.RefType.MinSnapshotsToKeep
		w.MaxSnapshotAgeMs = r.RefType.MaxSnapshotAgeMs
	case RefTag:
		w.Type = "tag"
	default:
		return nil, errors.Newf(errors.Shape, "unknown ref kind %d", r.RefType.Kind)
	}
	return json.Marshal(w)
}
