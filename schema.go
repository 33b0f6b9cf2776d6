package iceberg

import (
	"encoding/json"

	"github.com/big-rs-little-rs/rustberg/pkg/errors"
)

// Schema wraps a StructType with a schema-id and the optional set of
// identifier field-ids. On the wire these two keys sit flattened beside
// the struct's own "type"/"fields" keys at the same JSON object level —
// a schema document is a struct-type object with two extra keys merged
// in, not a nested sub-object. SchemaID is optional in a V1 document and
// required in V2; this package itself doesn't enforce that — the
// document codec does, since the requirement is version-specific.
type Schema struct {
	SchemaID           *int32
	IdentifierFieldIDs []int32
	Struct             StructType
}

type schemaHead struct {
	SchemaID           *int32  `json:"schema-id,omitempty"`
	IdentifierFieldIDs []int32 `json:"identifier-field-ids,omitempty"`
}

// DecodeSchema decodes a schema document. Unknown keys outside
// "schema-id"/"identifier-field-ids"/"type"/"fields" are ignored, matching
// the tolerant-of-extras behavior used throughout this codec's object
// decoders.
func DecodeSchema(data []byte) (Schema, error) {
	var head schemaHead
	if err := json.Unmarshal(data, &head); err != nil {
		return Schema{}, errors.New(errors.Structural, "malformed schema document", err)
	}
	t, err := DecodeType(data)
	if err != nil {
		return Schema{}, err
	}
	st, ok := t.(StructType)
	if !ok {
		return Schema{}, errors.Newf(errors.Shape, "schema document must be a struct type, got %T", t)
	}
	return Schema{SchemaID: head.SchemaID, IdentifierFieldIDs: head.IdentifierFieldIDs, Struct: st}, nil
}

// EncodeSchema encodes a schema back to its flattened wire form.
func EncodeSchema(s Schema) ([]byte, error) {
	body, err := EncodeType(s.Struct)
	if err != nil {
		return nil, err
	}
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, errors.New(errors.Structural, "internal: failed to flatten schema body", err)
	}
	if s.SchemaID != nil {
		idBytes, err := json.Marshal(*s.SchemaID)
		if err != nil {
			return nil, errors.New(errors.Structural, "internal: failed to encode schema-id", err)
		}
		flat["schema-id"] = idBytes
	}
	if s.IdentifierFieldIDs != nil {
		idsBytes, err := json.Marshal(s.IdentifierFieldIDs)
		if err != nil {
			return nil, errors.New(errors.Structural, "internal: failed to encode identifier-field-ids", err)
		}
		flat["identifier-field-ids"] = idsBytes
	}
	return json.Marshal(flat)
}
