package iceberg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryRoundTrip(t *testing.T) {
	s := Summary{Operation: OpAppend, Rest: map[string]string{"added-files": "2"}}
	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"operation": "append", "added-files": "2"}`, string(out))

	var reparsed Summary
	require.NoError(t, json.Unmarshal(out, &reparsed))
	assert.Equal(t, s, reparsed)
}

func TestSummaryMissingOperationRejected(t *testing.T) {
	var s Summary
	err := json.Unmarshal([]byte(`{"added-files": "2"}`), &s)
	require.Error(t, err)
}

func TestSummaryUnknownOperationRejected(t *testing.T) {
	var s Summary
	err := json.Unmarshal([]byte(`{"operation": "obliterate"}`), &s)
	require.Error(t, err)
}

func TestSnapshotV1ManifestListOnly(t *testing.T) {
	doc := []byte(`{
		"snapshot-id": 1,
		"timestamp-ms": 1000,
		"manifest-list": "s3://bucket/list.avro"
	}`)
	var s SnapshotV1
	require.NoError(t, json.Unmarshal(doc, &s))
	require.NotNil(t, s.ManifestList)
	assert.Equal(t, "s3://bucket/list.avro", *s.ManifestList)
	assert.Nil(t, s.Manifests)
}

func TestSnapshotV1ManifestsOnly(t *testing.T) {
	doc := []byte(`{
		"snapshot-id": 1,
		"timestamp-ms": 1000,
		"manifests": ["a.avro", "b.avro"]
	}`)
	var s SnapshotV1
	require.NoError(t, json.Unmarshal(doc, &s))
	assert.Nil(t, s.ManifestList)
	assert.Equal(t, []string{"a.avro", "b.avro"}, s.Manifests)
}

func TestSnapshotV1RejectsBothManifestFields(t *testing.T) {
	doc := []byte(`{
		"snapshot-id": 1,
		"timestamp-ms": 1000,
		"manifest-list": "s3://bucket/list.avro",
		"manifests": ["a.avro"]
	}`)
	var s SnapshotV1
	err := json.Unmarshal(doc, &s)
	require.Error(t, err)
}

func TestSnapshotV1EncodeRejectsBothManifestFields(t *testing.T) {
	list := "s3://bucket/list.avro"
	s := SnapshotV1{
		SnapshotID:   1,
		TimestampMs:  1000,
		ManifestList: &list,
		Manifests:    []string{"a.avro"},
	}
	_, err := json.Marshal(s)
	require.Error(t, err)
}

func TestSnapshotV2RoundTrip(t *testing.T) {
	s := SnapshotV2{
		SnapshotID:     3051729675574597004,
		SequenceNumber: 1,
		TimestampMs:    1515100955770,
		Summary:        Summary{Operation: OpAppend},
		ManifestList:   "s3://bucket/manifest.avro",
	}
	out, err := json.Marshal(s)
	require.NoError(t, err)

	var reparsed SnapshotV2
	require.NoError(t, json.Unmarshal(out, &reparsed))
	assert.Equal(t, s, reparsed)
}

func TestSnapshotRefV2Branch(t *testing.T) {
	minKeep := int32(10)
	ref := SnapshotRefV2{
		SnapshotID:  1,
		RefType:     RefType{Kind: RefBranch, MinSnapshotsToKeep: &minKeep},
		MaxRefAgeMs: nil,
	}
	out, err := json.Marshal(ref)
	require.NoError(t, err)
	assert.JSONEq(t, `{"snapshot-id": 1, "type": "branch", "min-snapshots-to-keep": 10}`, string(out))

	var reparsed SnapshotRefV2
	require.NoError(t, json.Unmarshal(out, &reparsed))
	assert.Equal(t, ref, reparsed)
}

func TestSnapshotRefV2Tag(t *testing.T) {
	doc := []byte(`{"snapshot-id": 2, "type": "tag"}`)
	var ref SnapshotRefV2
	require.NoError(t, json.Unmarshal(doc, &ref))
	assert.Equal(t, RefTag, ref.RefType.Kind)
}

func TestSnapshotRefV2TagRejectsBranchFields(t *testing.T) {
	doc := []byte(`{"snapshot-id": 2, "type": "tag", "min-snapshots-to-keep": 5}`)
	var ref SnapshotRefV2
	err := json.Unmarshal(doc, &ref)
	require.Error(t, err)
}

func TestSnapshotRefV2UnknownTypeRejected(t *testing.T) {
	doc := []byte(`{"snapshot-id": 2, "type": "branch-like"}`)
	var ref SnapshotRefV2
	err := json.Unmarshal(doc, &ref)
	require.Error(t, err)
}
