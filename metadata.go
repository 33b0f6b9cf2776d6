package iceberg

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/big-rs-little-rs/rustberg/pkg/errors"
)

// TableMetadata is the tagged union over the two document shapes a
// table-metadata file can take. Concrete implementations are
// *TableMetadataV1 and *TableMetadataV2.
type TableMetadata interface {
	isTableMetadata()
}

func (*TableMetadataV1) isTableMetadata() {}
func (*TableMetadataV2) isTableMetadata() {}

// SnapshotLogEntry is one entry of a table's snapshot history.
type SnapshotLogEntry struct {
	SnapshotID  int64 `json:"snapshot-id"`
	TimestampMs int64 `json:"timestamp-ms"`
}

// MetadataLogEntry is one entry of a table's metadata-file history.
type MetadataLogEntry struct {
	MetadataFile string `json:"metadata-file"`
	TimestampMs  int64  `json:"timestamp-ms"`
}

// TableMetadataV2 is the format-version-2 table-metadata document.
type TableMetadataV2 struct {
	FormatVersion      int32
	TableUUID          uuid.UUID
	Location           string
	LastSequenceNumber int64
	LastUpdatedMs      int64
	LastColumnID       int32
	Schemas            []Schema
	CurrentSchemaID    int32
	PartitionSpecs     []PartitionSpec
	DefaultSpecID      int32
	LastPartitionID    int32
	Properties         map[string]string
	CurrentSnapshotID  *int64
	Snapshots          []SnapshotV2
	SnapshotLog        []SnapshotLogEntry
	MetadataLog        []MetadataLogEntry
	SortOrders         []SortOrder
	DefaultSortOrderID int32
	Refs               map[string]SnapshotRefV2
	Statistics         json.RawMessage
}

// TableMetadataV1 is the format-version-1 table-metadata document. It
// carries the legacy singular "schema"/"partition-spec" fields alongside
// their plural V2-shaped forms.
type TableMetadataV1 struct {
	FormatVersion      int32
	TableUUID          *uuid.UUID
	Location           string
	LastUpdatedMs      int64
	LastColumnID       int32
	Schema             Schema
	Schemas            []Schema
	CurrentSchemaID    *int32
	PartitionSpec      []PartitionField
	PartitionSpecs     []PartitionSpec
	DefaultSpecID      *int32
	LastPartitionID    *int32
	Properties         map[string]string
	CurrentSnapshotID  *int64
	Snapshots          []SnapshotV1
	SnapshotLog        []SnapshotLogEntry
	MetadataLog        []MetadataLogEntry
	SortOrders         []SortOrder
	DefaultSortOrderID int32
	Statistics         json.RawMessage
}

type tableMetadataV2Wire struct {
	FormatVersion      int32                    `json:"format-version"`
	TableUUID          uuid.UUID                `json:"table-uuid"`
	Location           string                   `json:"location"`
	LastSequenceNumber int64                    `json:"last-sequence-number"`
	LastUpdatedMs      int64                    `json:"last-updated-ms"`
	LastColumnID       int32                    `json:"last-column-id"`
	Schemas            []json.RawMessage        `json:"schemas"`
	CurrentSchemaID    int32                    `json:"current-schema-id"`
	PartitionSpecs     []PartitionSpec          `json:"partition-specs"`
	DefaultSpecID      int32                    `json:"default-spec-id"`
	LastPartitionID    int32                    `json:"last-partition-id"`
	Properties         map[string]string        `json:"properties,omitempty"`
	CurrentSnapshotID  *int64                   `json:"current-snapshot-id,omitempty"`
	Snapshots          []SnapshotV2             `json:"snapshots,omitempty"`
	SnapshotLog        []SnapshotLogEntry       `json:"snapshot-log,omitempty"`
	MetadataLog        []MetadataLogEntry       `json:"metadata-log,omitempty"`
	SortOrders         []SortOrder              `json:"sort-orders"`
	DefaultSortOrderID int32                    `json:"default-sort-order-id"`
	Refs               map[string]SnapshotRefV2 `json:"refs"`
	Statistics         json.RawMessage          `json:"statistics,omitempty"`
}

func decodeTableMetadataV2(data []byte) (*TableMetadataV2, error) {
	var w tableMetadataV2Wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.New(errors.Structural, "malformed v2 metadata document", err)
	}
	if w.TableUUID == uuid.Nil {
		return nil, errors.New(errors.Shape, "v2 metadata requires table-uuid", nil)
	}
	schemas := make([]Schema, 0, len(w.Schemas))
	for i, raw := range w.Schemas {
		sc, err := DecodeSchema(raw)
		if err != nil {
			return nil, withPath(err, fmt.Sprintf("schemas[%d]", i))
		}
		if sc.SchemaID == nil {
			return nil, errors.New(errors.Shape, "v2 schema requires schema-id", nil).
				AddContext("path", fmt.Sprintf("schemas[%d]", i))
		}
		schemas = append(schemas, sc)
	}
	// Empty optional collections are omitted on emit, so they decode to nil
	// as well; otherwise a decode-encode-decode cycle would not be equal.
	if len(w.Properties) == 0 {
		w.Properties = nil
	}
	if len(w.Snapshots) == 0 {
		w.Snapshots = nil
	}
	if len(w.SnapshotLog) == 0 {
		w.SnapshotLog = nil
	}
	if len(w.MetadataLog) == 0 {
		w.MetadataLog = nil
	}
	return &TableMetadataV2{
		FormatVersion:      w.FormatVersion,
		TableUUID:          w.TableUUID,
		Location:           w.Location,
		LastSequenceNumber: w.LastSequenceNumber,
		LastUpdatedMs:      w.LastUpdatedMs,
		LastColumnID:       w.LastColumnID,
		Schemas:            schemas,
		CurrentSchemaID:    w.CurrentSchemaID,
		PartitionSpecs:     w.PartitionSpecs,
		DefaultSpecID:      w.DefaultSpecID,
		LastPartitionID:    w.LastPartitionID,
		Properties:         w.Properties,
		CurrentSnapshotID:  w.CurrentSnapshotID,
		Snapshots:          w.Snapshots,
		SnapshotLog:        w.SnapshotLog,
		MetadataLog:        w.MetadataLog,
		SortOrders:         w.SortOrders,
		DefaultSortOrderID: w.DefaultSortOrderID,
		Refs:               w.Refs,
		Statistics:         w.Statistics,
	}, nil
}

func encodeTableMetadataV2(m *TableMetadataV2) ([]byte, error) {
	schemas := make([]json.RawMessage, 0, len(m.Schemas))
	for i, s := range m.Schemas {
		raw, err := EncodeSchema(s)
		if err != nil {
			return nil, withPath(err, fmt.Sprintf("schemas[%d]", i))
		}
		schemas = append(schemas, raw)
	}
	w := tableMetadataV2Wire{
		FormatVersion:      m.FormatVersion,
		TableUUID:          m.TableUUID,
		Location:           m.Location,
		LastSequenceNumber: m.LastSequenceNumber,
		LastUpdatedMs:      m.LastUpdatedMs,
		LastColumnID:       m.LastColumnID,
		Schemas:            schemas,
		CurrentSchemaID:    m.CurrentSchemaID,
		PartitionSpecs:     m.PartitionSpecs,
		DefaultSpecID:      m.DefaultSpecID,
		LastPartitionID:    m.LastPartitionID,
		Properties:         m.Properties,
		CurrentSnapshotID:  m.CurrentSnapshotID,
		Snapshots:          m.Snapshots,
		SnapshotLog:        m.SnapshotLog,
		MetadataLog:        m.MetadataLog,
		SortOrders:         m.SortOrders,
		DefaultSortOrderID: m.DefaultSortOrderID,
		Refs:               m.Refs,
		Statistics:         m.Statistics,
	}
	return json.Marshal(w)
}

type tableMetadataV1Wire struct {
	FormatVersion      int32              `json:"format-version"`
	TableUUID          *uuid.UUID         `json:"table-uuid,omitempty"`
	Location           string             `json:"location"`
	LastUpdatedMs      int64              `json:"last-updated-ms"`
	LastColumnID       int32              `json:"last-column-id"`
	Schema             json.RawMessage    `json:"schema"`
	Schemas            []json.RawMessage  `json:"schemas,omitempty"`
	CurrentSchemaID    *int32             `json:"current-schema-id,omitempty"`
	PartitionSpec      []PartitionField   `json:"partition-spec"`
	PartitionSpecs     []PartitionSpec    `json:"partition-specs"`
	DefaultSpecID      *int32             `json:"default-spec-id,omitempty"`
	LastPartitionID    *int32             `json:"last-partition-id,omitempty"`
	Properties         map[string]string  `json:"properties,omitempty"`
	CurrentSnapshotID  *int64             `json:"current-snapshot-id,omitempty"`
	Snapshots          []SnapshotV1       `json:"snapshots,omitempty"`
	SnapshotLog        []SnapshotLogEntry `json:"snapshot-log,omitempty"`
	MetadataLog        []MetadataLogEntry `json:"metadata-log,omitempty"`
	SortOrders         []SortOrder        `json:"sort-orders,omitempty"`
	DefaultSortOrderID int32              `json:"default-sort-order-id"`
	Statistics         json.RawMessage    `json:"statistics,omitempty"`
}

func decodeTableMetadataV1(data []byte) (*TableMetadataV1, error) {
	var w tableMetadataV1Wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.New(errors.Structural, "malformed v1 metadata document", err)
	}
	schema, err := DecodeSchema(w.Schema)
	if err != nil {
		return nil, withPath(err, "schema")
	}
	schemas := make([]Schema, 0, len(w.Schemas))
	for i, raw := range w.Schemas {
		sc, err := DecodeSchema(raw)
		if err != nil {
			return nil, withPath(err, fmt.Sprintf("schemas[%d]", i))
		}
		schemas = append(schemas, sc)
	}
	return &TableMetadataV1{
		FormatVersion:      w.FormatVersion,
		TableUUID:          w.TableUUID,
		Location:           w.Location,
		LastUpdatedMs:      w.LastUpdatedMs,
		LastColumnID:       w.LastColumnID,
		Schema:             schema,
		Schemas:            schemas,
		CurrentSchemaID:    w.CurrentSchemaID,
		PartitionSpec:      w.PartitionSpec,
		PartitionSpecs:     w.PartitionSpecs,
		DefaultSpecID:      w.DefaultSpecID,
		LastPartitionID:    w.LastPartitionID,
		Properties:         w.Properties,
		CurrentSnapshotID:  w.CurrentSnapshotID,
		Snapshots:          w.Snapshots,
		SnapshotLog:        w.SnapshotLog,
		MetadataLog:        w.MetadataLog,
		SortOrders:         w.SortOrders,
		DefaultSortOrderID: w.DefaultSortOrderID,
		Statistics:         w.Statistics,
	}, nil
}

func encodeTableMetadataV1(m *TableMetadataV1) ([]byte, error) {
	schema, err := EncodeSchema(m.Schema)
	if err != nil {
		return nil, withPath(err, "schema")
	}
	schemas := make([]json.RawMessage, 0, len(m.Schemas))
	for i, s := range m.Schemas {
		raw, err := EncodeSchema(s)
		if err != nil {
			return nil, withPath(err, fmt.Sprintf("schemas[%d]", i))
		}
		schemas = append(schemas, raw)
	}
	w := tableMetadataV1Wire{
		FormatVersion:      m.FormatVersion,
		TableUUID:          m.TableUUID,
		Location:           m.Location,
		LastUpdatedMs:      m.LastUpdatedMs,
		LastColumnID:       m.LastColumnID,
		Schema:             schema,
		Schemas:            schemas,
		CurrentSchemaID:    m.CurrentSchemaID,
		PartitionSpec:      m.PartitionSpec,
		PartitionSpecs:     m.PartitionSpecs,
		DefaultSpecID:      m.DefaultSpecID,
		LastPartitionID:    m.LastPartitionID,
		Properties:         m.Properties,
		CurrentSnapshotID:  m.CurrentSnapshotID,
		Snapshots:          m.Snapshots,
		SnapshotLog:        m.SnapshotLog,
		MetadataLog:        m.MetadataLog,
		SortOrders:         m.SortOrders,
		DefaultSortOrderID: m.DefaultSortOrderID,
		Statistics:         m.Statistics,
	}
	return json.Marshal(w)
}

// DecodeDocument is the top-level entry point for textual table-metadata
// documents. It peeks the "format-version" key with gjson before
// committing to a full typed decode, then dispatches to the
// version-specific shape decoder.
func DecodeDocument(data []byte) (TableMetadata, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New(errors.Structural, "malformed metadata document", nil)
	}
	version := gjson.GetBytes(data, "format-version")
	if !version.Exists() || version.Type != gjson.Number || strings.ContainsAny(version.Raw, ".eE") {
		return nil, errors.New(errors.Version, "missing or non-integer format-version", nil)
	}
	switch v := version.Int(); v {
	case 1:
		m, err := decodeTableMetadataV1(data)
		if err != nil {
			return nil, withVersionTag(err, 1)
		}
		return m, nil
	case 2:
		m, err := decodeTableMetadataV2(data)
		if err != nil {
			return nil, withVersionTag(err, 2)
		}
		return m, nil
	default:
		return nil, errors.Newf(errors.Version, "unsupported format-version %d", v)
	}
}

func withVersionTag(err error, version int) error {
	if ie, ok := err.(*errors.Error); ok {
		return ie.AddContext("format-version", version)
	}
	return err
}

// EncodeDocument writes "format-version" as the integer discriminant,
// flattening the version-specific body beside it.
func EncodeDocument(m TableMetadata) ([]byte, error) {
	var body []byte
	var version int
	var err error
	switch v := m.(type) {
	case *TableMetadataV1:
		version = 1
		body, err = encodeTableMetadataV1(v)
	case *TableMetadataV2:
		version = 2
		body, err = encodeTableMetadataV2(v)
	default:
		return nil, errors.Newf(errors.Shape, "unknown table metadata implementation %T", m)
	}
	if err != nil {
		return nil, err
	}
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, errors.New(errors.Structural, "internal: failed to flatten metadata body", err)
	}
	vb, err := json.Marshal(version)
	if err != nil {
		return nil, errors.New(errors.Structural, "internal: failed to encode format-version", err)
	}
	flat["format-version"] = vb
	return json.Marshal(flat)
}
