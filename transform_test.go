package iceberg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransformNamed(t *testing.T) {
	for name, kind := range map[string]TransformKind{
		"identity": TransformIdentity,
		"year":     TransformYear,
		"month":    TransformMonth,
		"day":      TransformDay,
		"hour":     TransformHour,
	} {
		tr, err := ParseTransform(name)
		require.NoError(t, err)
		assert.Equal(t, kind, tr.Kind)
		assert.Equal(t, name, tr.String())
	}
}

func TestParseTransformBucket(t *testing.T) {
	tr, err := ParseTransform("bucket[42]")
	require.NoError(t, err)
	assert.Equal(t, TransformBucket, tr.Kind)
	assert.Equal(t, uint32(42), tr.N)
	assert.Equal(t, "bucket[42]", tr.String())
}

func TestParseTransformBucketRejectsMalformed(t *testing.T) {
	_, err := ParseTransform("bucket(1)")
	require.Error(t, err)

	_, err = ParseTransform("bucket[a1]")
	require.Error(t, err)
}

func TestParseTransformTruncate(t *testing.T) {
	tr, err := ParseTransform("truncate[10]")
	require.NoError(t, err)
	assert.Equal(t, TransformTruncate, tr.Kind)
	assert.Equal(t, uint32(10), tr.N)
}

func TestParseTransformTruncateRejectsMalformed(t *testing.T) {
	_, err := ParseTransform("truncate[a1]")
	require.Error(t, err)
}

func TestParseTransformUnknownRejected(t *testing.T) {
	_, err := ParseTransform("reverse")
	require.Error(t, err)
}

func TestTransformJSONRoundTrip(t *testing.T) {
	tr := Transform{Kind: TransformBucket, N: 8}
	out, err := json.Marshal(tr)
	require.NoError(t, err)
	assert.JSONEq(t, `"bucket[8]"`, string(out))

	var reparsed Transform
	require.NoError(t, json.Unmarshal(out, &reparsed))
	assert.Equal(t, tr, reparsed)
}

func TestDirectionRoundTrip(t *testing.T) {
	out, err := json.Marshal(Desc)
	require.NoError(t, err)
	assert.JSONEq(t, `"desc"`, string(out))

	var d Direction
	require.NoError(t, json.Unmarshal([]byte(`"asc"`), &d))
	assert.Equal(t, Asc, d)
}

func TestDirectionRejectsUnknown(t *testing.T) {
	var d Direction
	err := json.Unmarshal([]byte(`"dsc"`), &d)
	require.Error(t, err)
}

func TestNullOrderRoundTrip(t *testing.T) {
	out, err := json.Marshal(NullsLast)
	require.NoError(t, err)
	assert.JSONEq(t, `"nulls-last"`, string(out))

	var n NullOrder
	require.NoError(t, json.Unmarshal([]byte(`"nulls-first"`), &n))
	assert.Equal(t, NullsFirst, n)
}

func TestNullOrderRejectsUnknown(t *testing.T) {
	var n NullOrder
	err := json.Unmarshal([]byte(`"nulls"`), &n)
	require.Error(t, err)
}

func TestPartitionSpecRoundTrip(t *testing.T) {
	spec := PartitionSpec{
		SpecID: 0,
		Fields: []PartitionField{
			{SourceID: 1, FieldID: 1000, Name: "bucketed_id", Transform: Transform{Kind: TransformBucket, N: 16}},
		},
	}
	out, err := json.Marshal(spec)
	require.NoError(t, err)

	var reparsed PartitionSpec
	require.NoError(t, json.Unmarshal(out, &reparsed))
	assert.Equal(t, spec, reparsed)
}

func TestSortOrderRoundTrip(t *testing.T) {
	order := SortOrder{
		OrderID: 1,
		Fields: []SortField{
			{Transform: Transform{Kind: TransformIdentity}, SourceID: 2, Direction: Asc, NullOrder: NullsFirst},
		},
	}
	out, err := json.Marshal(order)
	require.NoError(t, err)

	var reparsed SortOrder
	require.NoError(t, json.Unmarshal(out, &reparsed))
	assert.Equal(t, order, reparsed)
}
