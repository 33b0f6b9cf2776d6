package iceberg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodePrimitiveBareNames(t *testing.T) {
	for _, name := range []string{
		"boolean", "int", "long", "float", "double", "date", "time",
		"timestamp", "timestamptz", "string", "uuid", "binary",
	} {
		t.Run(name, func(t *testing.T) {
			typ, err := DecodeType([]byte(`"` + name + `"`))
			require.NoError(t, err)

			out, err := EncodeType(typ)
			require.NoError(t, err)
			assert.JSONEq(t, `"`+name+`"`, string(out))
		})
	}
}

func TestDecodeFixed(t *testing.T) {
	typ, err := DecodeType([]byte(`"fixed[16]"`))
	require.NoError(t, err)
	assert.Equal(t, PrimitiveType{Kind: Fixed, FixedLength: 16}, typ)

	out, err := EncodeType(typ)
	require.NoError(t, err)
	assert.JSONEq(t, `"fixed[16]"`, string(out))
}

func TestDecodeDecimal(t *testing.T) {
	typ, err := DecodeType([]byte(`"decimal(9, 2)"`))
	require.NoError(t, err)
	assert.Equal(t, PrimitiveType{Kind: Decimal, DecimalPrecision: 9, DecimalScale: 2}, typ)
}

func TestDecodeDecimalPrecisionOverflowRejected(t *testing.T) {
	_, err := DecodeType([]byte(`"decimal(39, 0)"`))
	require.Error(t, err)
}

func TestDecodeFixedMalformedRejected(t *testing.T) {
	_, err := DecodeType([]byte(`"fixed(1)"`))
	require.Error(t, err)

	_, err = DecodeType([]byte(`"fixed[a]"`))
	require.Error(t, err)
}

func TestDecodeUnknownPrimitiveRejected(t *testing.T) {
	_, err := DecodeType([]byte(`"unobtainium"`))
	require.Error(t, err)
}

func TestDecodeStructRoundTrip(t *testing.T) {
	doc := []byte(`{
		"type": "struct",
		"fields": [
			{"id": 1, "name": "id", "required": true, "type": "long"},
			{"id": 2, "name": "label", "required": false, "type": "string", "doc": "a label"}
		]
	}`)
	typ, err := DecodeType(doc)
	require.NoError(t, err)

	st, ok := typ.(StructType)
	require.True(t, ok)
	require.Len(t, st.Fields, 2)
	assert.Equal(t, int32(1), st.Fields[0].ID)
	assert.Equal(t, "id", st.Fields[0].Name)
	assert.True(t, st.Fields[0].Required)
	assert.Equal(t, PrimitiveType{Kind: Long}, st.Fields[0].Type)
	require.NotNil(t, st.Fields[1].Doc)
	assert.Equal(t, "a label", *st.Fields[1].Doc)

	out, err := EncodeType(st)
	require.NoError(t, err)

	reparsed, err := DecodeType(out)
	require.NoError(t, err)
	assert.Equal(t, st, reparsed)
}

func TestDecodeListRoundTrip(t *testing.T) {
	doc := []byte(`{
		"type": "list",
		"element-id": 5,
		"element-required": true,
		"element": "string"
	}`)
	typ, err := DecodeType(doc)
	require.NoError(t, err)

	lt, ok := typ.(ListType)
	require.True(t, ok)
	assert.Equal(t, int32(5), lt.ElementID)
	assert.True(t, lt.ElementRequired)
	assert.Equal(t, PrimitiveType{Kind: String}, lt.Element)
}

func TestDecodeMapRoundTrip(t *testing.T) {
	doc := []byte(`{
		"type": "map",
		"key-id": 1,
		"key": "decimal(30, 20)",
		"value-id": 2,
		"value-required": false,
		"value": "double"
	}`)
	typ, err := DecodeType(doc)
	require.NoError(t, err)

	mt, ok := typ.(MapType)
	require.True(t, ok)
	assert.Equal(t, PrimitiveType{Kind: Decimal, DecimalPrecision: 30, DecimalScale: 20}, mt.Key)
	assert.Equal(t, PrimitiveType{Kind: Double}, mt.Value)
	assert.False(t, mt.ValueRequired)
}

func TestDecodeMalformedNestedListRejected(t *testing.T) {
	doc := []byte(`{
		"type": "struct",
		"fields": [
			{
				"id": 1,
				"name": "items",
				"required": true,
				"type": {
					"type": "list",
					"element-id": 2,
					"element-required": true,
					"type": "fixed[400]"
				}
			}
		]
	}`)
	_, err := DecodeType(doc)
	// The nested node has no "element" key, and its second "type" key
	// ("fixed[400]") replaces "list" as the tag; the malformed nested node
	// surfaces a path-tagged error rather than panicking.
	require.Error(t, err)
}

func TestDecodeTypeRejectsUnknownShape(t *testing.T) {
	_, err := DecodeType([]byte(`42`))
	require.Error(t, err)
}

func TestDecodeTypeRejectsUnknownCompositeTag(t *testing.T) {
	_, err := DecodeType([]byte(`{"type": "enum"}`))
	require.Error(t, err)
}

func TestDecodeTypeErrorHasPath(t *testing.T) {
	doc := []byte(`{
		"type": "struct",
		"fields": [
			{"id": 1, "name": "bad", "required": true, "type": "decimal(99, 0)"}
		]
	}`)
	_, err := DecodeType(doc)
	require.Error(t, err)
	ie, ok := err.(interface{ Path() string })
	require.True(t, ok)
	assert.Equal(t, "fields[0].type", ie.Path())
}
