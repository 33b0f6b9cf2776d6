package iceberg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/big-rs-little-rs/rustberg/pkg/errors"
)

var primitiveNameToKind = map[string]PrimitiveKind{
	"boolean":     Boolean,
	"int":         Int,
	"long":        Long,
	"float":       Float,
	"double":      Double,
	"date":        Date,
	"time":        Time,
	"timestamp":   Timestamp,
	"timestamptz": Timestamptz,
	"string":      String,
	"uuid":        UUID,
	"binary":      Binary,
}

var primitiveKindToName = map[PrimitiveKind]string{
	Boolean:     "boolean",
	Int:         "int",
	Long:        "long",
	Float:       "float",
	Double:      "double",
	Date:        "date",
	Time:        "time",
	Timestamp:   "timestamp",
	Timestamptz: "timestamptz",
	String:      "string",
	UUID:        "uuid",
	Binary:      "binary",
}

func decodePrimitiveString(s string) (Type, error) {
	switch {
	case strings.HasPrefix(s, "fixed"):
		length, err := parseFixedLength(s)
		if err != nil {
			return nil, err
		}
		return PrimitiveType{Kind: Fixed, FixedLength: length}, nil
	case strings.HasPrefix(s, "decimal"):
		precision, scale, err := parseDecimalParams(s)
		if err != nil {
			return nil, err
		}
		return PrimitiveType{Kind: Decimal, DecimalPrecision: precision, DecimalScale: scale}, nil
	default:
		kind, ok := primitiveNameToKind[s]
		if !ok {
			return nil, errors.Newf(errors.Domain, "unknown primitive type %q", s)
		}
		return PrimitiveType{Kind: kind}, nil
	}
}

func encodePrimitiveString(p PrimitiveType) (string, error) {
	switch p.Kind {
	case Fixed:
		return fmt.Sprintf("fixed[%d]", p.FixedLength), nil
	case Decimal:
		if p.DecimalPrecision > 38 {
			return "", errors.Newf(errors.Domain, "decimal precision %d exceeds maximum of 38", p.DecimalPrecision)
		}
		return fmt.Sprintf("decimal(%d, %d)", p.DecimalPrecision, p.DecimalScale), nil
	default:
		name, ok := primitiveKindToName[p.Kind]
		if !ok {
			return "", errors.Newf(errors.Shape, "unknown primitive kind %d", p.Kind)
		}
		return name, nil
	}
}

// DecodeType decodes a single schema-type node: a JSON string for a
// primitive, or a JSON object tagged by "type" for a struct/list/map.
func DecodeType(data []byte) (Type, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New(errors.Structural, "empty type node", nil)
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, errors.New(errors.Structural, "malformed primitive type string", err)
		}
		return decodePrimitiveString(s)
	case '{':
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(trimmed, &head); err != nil {
			return nil, errors.New(errors.Structural, "malformed type object", err)
		}
		switch head.Type {
		case "struct":
			return decodeStructType(trimmed)
		case "list":
			return decodeListType(trimmed)
		case "map":
			return decodeMapType(trimmed)
		default:
			return nil, errors.Newf(errors.Domain, "unknown composite type tag %q", head.Type)
		}
	default:
		return nil, errors.Newf(errors.Shape, "type node must be a string or object, got %q", string(trimmed))
	}
}

// EncodeType encodes a Type back to its wire form.
func EncodeType(t Type) ([]byte, error) {
	switch v := t.(type) {
	case PrimitiveType:
		s, err := encodePrimitiveString(v)
		if err != nil {
			return nil, err
		}
		return json.Marshal(s)
	case StructType:
		return encodeStructType(v)
	case ListType:
		return encodeListType(v)
	case MapType:
		return encodeMapType(v)
	default:
		return nil, errors.Newf(errors.Shape, "unknown type implementation %T", t)
	}
}

type wireStructField struct {
	ID             int32           `json:"id"`
	Name           string          `json:"name"`
	Required       bool            `json:"required"`
	Type           json.RawMessage `json:"type"`
	Doc            *string         `json:"doc,omitempty"`
	InitialDefault *string         `json:"initial-default,omitempty"`
	WriteDefault   *string         `json:"write-default,omitempty"`
}

type rawStructType struct {
	Type   string             `json:"type"`
	Fields []wireStructField `json:"fields"`
}

func decodeStructType(data []byte) (Type, error) {
	var raw rawStructType
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.New(errors.Structural, "malformed struct type", err)
	}
	fields := make([]StructField, 0, len(raw.Fields))
	for i, rf := range raw.Fields {
		ft, err := DecodeType(rf.Type)
		if err != nil {
			return nil, withPath(err, fmt.Sprintf("fields[%d].type", i))
		}
		fields = append(fields, StructField{
			ID:             rf.ID,
			Name:           rf.Name,
			Required:       rf.Required,
			Type:           ft,
			Doc:            rf.Doc,
			InitialDefault: rf.InitialDefault,
			WriteDefault:   rf.WriteDefault,
		})
	}
	return StructType{Fields: fields}, nil
}

func encodeStructType(s StructType) ([]byte, error) {
	fields := make([]wireStructField, 0, len(s.Fields))
	for i, f := range s.Fields {
		ft, err := EncodeType(f.Type)
		if err != nil {
			return nil, withPath(err, fmt.Sprintf("fields[%d].type", i))
		}
		fields = append(fields, wireStructField{
			ID:             f.ID,
			Name:           f.Name,
			Required:       f.Required,
			Type:           ft,
			Doc:            f.Doc,
			InitialDefault: f.InitialDefault,
			WriteDefault:   f.WriteDefault,
		})
	}
	return json.Marshal(struct {
		Type   string             `json:"type"`
		Fields []wireStructField `json:"fields"`
	}{Type: "struct", Fields: fields})
}

type rawListType struct {
	Type            string          `json:"type"`
	ElementID       int32           `json:"element-id"`
	ElementRequired bool            `json:"element-required"`
	Element         json.RawMessage `json:"element"`
}

func decodeListType(data []byte) (Type, error) {
	var raw rawListType
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.New(errors.Structural, "malformed list type", err)
	}
	elem, err := DecodeType(raw.Element)
	if err != nil {
		return nil, withPath(err, "element")
	}
	return ListType{ElementID: raw.ElementID, ElementRequired: raw.ElementRequired, Element: elem}, nil
}

func encodeListType(l ListType) ([]byte, error) {
	elem, err := EncodeType(l.Element)
	if err != nil {
		return nil, withPath(err, "element")
	}
	return json.Marshal(struct {
		Type            string          `json:"type"`
		ElementID       int32           `json:"element-id"`
		ElementRequired bool            `json:"element-required"`
		Element         json.RawMessage `json:"element"`
	}{Type: "list", ElementID: l.ElementID, ElementRequired: l.ElementRequired, Element: elem})
}

type rawMapType struct {
	Type          string          `json:"type"`
	KeyID         int32           `json:"key-id"`
	Key           json.RawMessage `json:"key"`
	ValueID       int32           `json:"value-id"`
	ValueRequired bool            `json:"value-required"`
	Value         json.RawMessage `json:"value"`
}

func decodeMapType(data []byte) (Type, error) {
	var raw rawMapType
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.New(errors.Structural, "malformed map type", err)
	}
	key, err := DecodeType(raw.Key)
	if err != nil {
		return nil, withPath(err, "key")
	}
	value, err := DecodeType(raw.Value)
	if err != nil {
		return nil, withPath(err, "value")
	}
	return MapType{
		KeyID:         raw.KeyID,
		Key:           key,
		ValueID:       raw.ValueID,
		ValueRequired: raw.ValueRequired,
		Value:         value,
	}, nil
}

func encodeMapType(m MapType) ([]byte, error) {
	key, err := EncodeType(m.Key)
	if err != nil {
		return nil, withPath(err, "key")
	}
	value, err := EncodeType(m.Value)
	if err != nil {
		return nil, withPath(err, "value")
	}
	return json.Marshal(struct {
		Type          string          `json:"type"`
		KeyID         int32           `json:"key-id"`
		Key           json.RawMessage `json:"key"`
		ValueID       int32           `json:"value-id"`
		ValueRequired bool            `json:"value-required"`
		Value         json.RawMessage `json:"value"`
	}{Type: "map", KeyID: m.KeyID, Key: key, ValueID: m.ValueID, ValueRequired: m.ValueRequired, Value: value})
}

// MarshalJSON/UnmarshalJSON on the concrete Type implementations let
// callers use encoding/json directly against a known concrete type, while
// StructField (and ListType/MapType internally) go through DecodeType for
// the polymorphic case.

func (p PrimitiveType) MarshalJSON() ([]byte, error) { return EncodeType(p) }

func (p *PrimitiveType) UnmarshalJSON(data []byte) error {
	t, err := DecodeType(data)
	if err != nil {
		return err
	}
	pt, ok := t.(PrimitiveType)
	if !ok {
		return errors.Newf(errors.Shape, "expected primitive type, got %T", t)
	}
	*p = pt
	return nil
}

func (s StructType) MarshalJSON() ([]byte, error) { return EncodeType(s) }

func (s *StructType) UnmarshalJSON(data []byte) error {
	t, err := DecodeType(data)
	if err != nil {
		return err
	}
	st, ok := t.(StructType)
	if !ok {
		return errors.Newf(errors.Shape, "expected struct type, got %T", t)
	}
	*s = st
	return nil
}

func (l ListType) MarshalJSON() ([]byte, error) { return EncodeType(l) }

func (l *ListType) UnmarshalJSON(data []byte) error {
	t, err := DecodeType(data)
	if err != nil {
		return err
	}
	lt, ok := t.(ListType)
	if !ok {
		return errors.Newf(errors.Shape, "expected list type, got %T", t)
	}
	*l = lt
	return nil
}

func (m MapType) MarshalJSON() ([]byte, error) { return EncodeType(m) }

func (m *MapType) UnmarshalJSON(data []byte) error {
	t, err := DecodeType(data)
	if err != nil {
		return err
	}
	mt, ok := t.(MapType)
	if !ok {
		return errors.Newf(errors.Shape, "expected map type, got %T", t)
	}
	*m = mt
	return nil
}

// StructField has a polymorphic Type field, so it needs hand-rolled
// marshaling rather than relying on struct tags.

func (f StructField) MarshalJSON() ([]byte, error) {
	ft, err := EncodeType(f.Type)
	if err != nil {
		return nil, withPath(err, "type")
	}
	return json.Marshal(wireStructField{
		ID:             f.ID,
		Name:           f.Name,
		Required:       f.Required,
		Type:           ft,
		Doc:            f.Doc,
		InitialDefault: f.InitialDefault,
		WriteDefault:   f.WriteDefault,
	})
}

func (f *StructField) UnmarshalJSON(data []byte) error {
	var raw wireStructField
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.New(errors.Structural, "malformed struct field", err)
	}
	ft, err := DecodeType(raw.Type)
	if err != nil {
		return withPath(err, "type")
	}
	f.ID = raw.ID
	f.Name = raw.Name
	f.Required = raw.Required
	f.Type = ft
	f.Doc = raw.Doc
	f.InitialDefault = raw.InitialDefault
	f.WriteDefault = raw.WriteDefault
	return nil
}
