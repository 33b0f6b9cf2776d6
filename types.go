// Package iceberg decodes and encodes table-format metadata: the schema
// type tree, partitioning and sort declarations, snapshots and refs, and
// the version-dispatched table-metadata document. All operations are pure
// functions over caller-supplied byte buffers; nothing here performs I/O.
package iceberg

// Type is the tagged union over the four shapes a schema node can take:
// a primitive, or one of the three composite kinds (struct, list, map).
// Composite kinds are tagged in their wire form by a "type" discriminant;
// primitives are bare strings. Concrete implementations are PrimitiveType,
// StructType, ListType and MapType.
type Type interface {
	isType()
}

// PrimitiveKind enumerates the closed set of primitive schema types.
type PrimitiveKind int

const (
	Boolean PrimitiveKind = iota
	Int
	Long
	Float
	Double
	Date
	Time
	Timestamp
	Timestamptz
	String
	UUID
	Binary
	Fixed
	Decimal
)

// PrimitiveType is a primitive schema node. FixedLength is meaningful only
// when Kind == Fixed; DecimalPrecision and DecimalScale only when Kind ==
// Decimal.
type PrimitiveType struct {
	Kind             PrimitiveKind
	FixedLength      uint32
	DecimalPrecision uint8
	DecimalScale     uint32
}

func (PrimitiveType) isType() {}

// StructField is one ordered member of a StructType. InitialDefault and
// WriteDefault carry opaque, type-dependent encoded values; this package
// never interprets their contents.
type StructField struct {
	ID             int32
	Name           string
	Required       bool
	Type           Type
	Doc            *string
	InitialDefault *string
	WriteDefault   *string
}

// StructType is an ordered sequence of fields. Field order is significant:
// it governs emitted order.
type StructType struct {
	Fields []StructField
}

func (StructType) isType() {}

// ListType is a homogeneous sequence of Element, with its own field-id and
// requiredness.
type ListType struct {
	ElementID       int32
	ElementRequired bool
	Element         Type
}

func (ListType) isType() {}

// MapType is a homogeneous key/value association, each side carrying its
// own field-id and (for the value) requiredness.
type MapType struct {
	KeyID         int32
	Key           Type
	ValueID       int32
	ValueRequired bool
	Value         Type
}

func (MapType) isType() {}
