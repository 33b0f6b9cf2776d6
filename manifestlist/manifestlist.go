// Package manifestlist decodes and encodes the Avro binary manifest-list
// format: the per-snapshot index of manifest files. Unlike the iceberg
// package's JSON document codecs, this is a binary container format, so
// the codec lives behind github.com/hamba/avro/v2's OCF reader/writer
// rather than encoding/json.
package manifestlist

// Content distinguishes a manifest entry that points at data files from
// one that points at delete files. Present on the wire only from
// format-version 2 onward; V1 records carry no content field and decode
// as ContentData.
type Content int32

const (
	ContentData   Content = 0
	ContentDelete Content = 1
)

// FieldSummary is the per-partition-field column summary carried by a
// manifest-list record's "partitions" array. The shape is identical
// across V1 and V2.
type FieldSummary struct {
	ContainsNull bool
	ContainsNaN  *bool
	LowerBound   []byte
	UpperBound   []byte
}

// Record is the in-memory, version-agnostic shape of a manifest-list
// entry. Decoding a V1 record fills it with V1's defaults for the
// fields V1 does not carry (Content defaults to ContentData,
// SequenceNumber and MinSequenceNumber default to 0, as directed by the
// Iceberg V1-to-V2 upgrade rules). EncodeV2 writes it through the V2
// schema verbatim; EncodeV1 drops Content/SequenceNumber/
// MinSequenceNumber (V1 has no wire slot for them) and writes the rest
// through the V1 schema, so a V1 writer's physical file can round-trip
// through a genuine V1 container rather than always being upgraded.
type Record struct {
	ManifestPath       string
	ManifestLength     int64
	PartitionSpecID    int32
	Content            Content
	SequenceNumber     int64
	MinSequenceNumber  int64
	AddedSnapshotID    int64
	AddedFilesCount    int32
	ExistingFilesCount int32
	DeletedFilesCount  int32
	AddedRowsCount     int64
	ExistingRowsCount  int64
	DeletedRowsCount   int64
	Partitions         []FieldSummary
	KeyMetadata        []byte
}
