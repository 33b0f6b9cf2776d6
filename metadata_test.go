package iceberg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const v2Doc = `{
	"format-version": 2,
	"table-uuid": "9c12d441-03fe-4693-9a96-a0705ddf69c1",
	"location": "s3://bucket/table",
	"last-sequence-number": 1,
	"last-updated-ms": 1602638573590,
	"last-column-id": 3,
	"schemas": [
		{
			"type": "struct",
			"schema-id": 0,
			"fields": [
				{"id": 1, "name": "x", "required": true, "type": "long"}
			]
		}
	],
	"current-schema-id": 0,
	"partition-specs": [{"spec-id": 0, "fields": []}],
	"default-spec-id": 0,
	"last-partition-id": 999,
	"properties": {},
	"current-snapshot-id": null,
	"snapshots": [],
	"snapshot-log": [],
	"metadata-log": [],
	"sort-orders": [{"order-id": 0, "fields": []}],
	"default-sort-order-id": 0,
	"refs": {}
}`

const v1Doc = `{
	"format-version": 1,
	"location": "s3://bucket/table",
	"last-updated-ms": 1602638573590,
	"last-column-id": 3,
	"schema": {
		"type": "struct",
		"fields": [
			{"id": 1, "name": "x", "required": true, "type": "long"}
		]
	},
	"partition-spec": [],
	"default-sort-order-id": 0,
	"refs": {"main": {"snapshot-id": 1, "type": "branch"}}
}`

func TestDecodeDocumentV2(t *testing.T) {
	m, err := DecodeDocument([]byte(v2Doc))
	require.NoError(t, err)

	v2, ok := m.(*TableMetadataV2)
	require.True(t, ok)
	assert.Equal(t, "s3://bucket/table", v2.Location)
	assert.Equal(t, int32(0), v2.CurrentSchemaID)
	require.Len(t, v2.Schemas, 1)
	require.NotNil(t, v2.Schemas[0].SchemaID)
	assert.Equal(t, int32(0), *v2.Schemas[0].SchemaID)
}

func TestDecodeDocumentV1(t *testing.T) {
	m, err := DecodeDocument([]byte(v1Doc))
	require.NoError(t, err)

	v1, ok := m.(*TableMetadataV1)
	require.True(t, ok)
	assert.Equal(t, "s3://bucket/table", v1.Location)
	assert.Len(t, v1.Schema.Struct.Fields, 1)
}

func TestDecodeDocumentV1TolerantOfStrayRefsKey(t *testing.T) {
	// V1 documents in the wild sometimes carry an unrecognized "refs" key;
	// it must be ignored rather than rejected.
	_, err := DecodeDocument([]byte(v1Doc))
	require.NoError(t, err)
}

func TestDecodeDocumentMissingVersionRejected(t *testing.T) {
	_, err := DecodeDocument([]byte(`{"location": "s3://bucket/table"}`))
	require.Error(t, err)
}

func TestDecodeDocumentNonIntegerVersionRejected(t *testing.T) {
	_, err := DecodeDocument([]byte(`{"format-version": 1.5}`))
	require.Error(t, err)
}

func TestDecodeDocumentUnsupportedVersionRejected(t *testing.T) {
	_, err := DecodeDocument([]byte(`{"format-version": 3}`))
	require.Error(t, err)
}

func TestDecodeDocumentV2RequiresTableUUID(t *testing.T) {
	doc := `{
		"format-version": 2,
		"location": "s3://bucket/table",
		"last-sequence-number": 1,
		"last-updated-ms": 1,
		"last-column-id": 1,
		"schemas": [{"type": "struct", "schema-id": 0, "fields": []}],
		"current-schema-id": 0,
		"partition-specs": [],
		"default-spec-id": 0,
		"last-partition-id": 0,
		"sort-orders": [],
		"default-sort-order-id": 0,
		"refs": {}
	}`
	_, err := DecodeDocument([]byte(doc))
	require.Error(t, err)
}

func TestDecodeDocumentV2RequiresSchemaID(t *testing.T) {
	doc := `{
		"format-version": 2,
		"table-uuid": "9c12d441-03fe-4693-9a96-a0705ddf69c1",
		"location": "s3://bucket/table",
		"last-sequence-number": 1,
		"last-updated-ms": 1,
		"last-column-id": 1,
		"schemas": [{"type": "struct", "fields": []}],
		"current-schema-id": 0,
		"partition-specs": [],
		"default-spec-id": 0,
		"last-partition-id": 0,
		"sort-orders": [],
		"default-sort-order-id": 0,
		"refs": {}
	}`
	_, err := DecodeDocument([]byte(doc))
	require.Error(t, err)
}

func TestEncodeDocumentRoundTripV2(t *testing.T) {
	m, err := DecodeDocument([]byte(v2Doc))
	require.NoError(t, err)

	out, err := EncodeDocument(m)
	require.NoError(t, err)

	reparsed, err := DecodeDocument(out)
	require.NoError(t, err)
	assert.Equal(t, m, reparsed)
}

func TestEncodeDocumentRoundTripV1(t *testing.T) {
	m, err := DecodeDocument([]byte(v1Doc))
	require.NoError(t, err)

	out, err := EncodeDocument(m)
	require.NoError(t, err)

	reparsed, err := DecodeDocument(out)
	require.NoError(t, err)
	assert.Equal(t, m, reparsed)
}
