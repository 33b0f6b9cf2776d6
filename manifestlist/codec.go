package manifestlist

import (
	"bytes"
	"io"

	"github.com/hamba/avro/v2"
	"github.com/hamba/avro/v2/ocf"

	"github.com/big-rs-little-rs/rustberg/pkg/errors"
)

var (
	parsedSchemaV1 = avro.MustParse(schemaV1)
	parsedSchemaV2 = avro.MustParse(schemaV2)
)

// Decode reads every record out of an Avro OCF manifest-list file. Each
// record is decoded into a generic field map first, independent of
// whether the file's embedded writer schema is the V1 or V2 shape, and
// then lifted into the version-agnostic Record with V1's missing fields
// filled from the upgrade defaults (content=data, sequence_number=0,
// min_sequence_number=0). This sidesteps depending on the Avro library's
// own schema-resolution/default-filling behavior for a detail the
// format itself specifies.
func Decode(r io.Reader) ([]Record, error) {
	dec, err := ocf.NewDecoder(r)
	if err != nil {
		return nil, errors.New(errors.Structural, "malformed manifest-list container", err)
	}

	var records []Record
	for dec.HasNext() {
		raw := make(map[string]interface{})
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.New(errors.Structural, "malformed manifest-list record", err)
		}
		rec, err := recordFromRaw(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := dec.Error(); err != nil {
		return nil, errors.New(errors.Structural, "truncated manifest-list container", err)
	}
	return records, nil
}

func recordFromRaw(raw map[string]interface{}) (Record, error) {
	path, ok := asString(raw["manifest_path"])
	if !ok {
		return Record{}, errors.New(errors.Shape, "manifest-list record missing manifest_path", nil)
	}
	length, ok := asInt64(raw["manifest_length"])
	if !ok {
		return Record{}, errors.New(errors.Shape, "manifest-list record missing manifest_length", nil)
	}
	specID, ok := asInt32(raw["partition_spec_id"])
	if !ok {
		return Record{}, errors.New(errors.Shape, "manifest-list record missing partition_spec_id", nil)
	}

	content := ContentData
	if v, ok := asInt32(raw["content"]); ok {
		content = Content(v)
	}

	sequenceNumber, _ := asInt64(raw["sequence_number"])
	minSequenceNumber, _ := asInt64(raw["min_sequence_number"])
	addedSnapshotID, _ := asInt64(raw["added_snapshot_id"])

	addedFiles, _ := firstInt32(raw, "added_files_count", "added_data_files_count")
	existingFiles, _ := firstInt32(raw, "existing_files_count", "existing_data_files_count")
	deletedFiles, _ := firstInt32(raw, "deleted_files_count", "deleted_data_files_count")
	addedRows, _ := asInt64(raw["added_rows_count"])
	existingRows, _ := asInt64(raw["existing_rows_count"])
	deletedRows, _ := asInt64(raw["deleted_rows_count"])

	partitions, err := partitionsFromRaw(raw["partitions"])
	if err != nil {
		return Record{}, withPath(err, "partitions")
	}

	keyMetadata, _ := asBytes(raw["key_metadata"])

	return Record{
		ManifestPath:       path,
		ManifestLength:     length,
		PartitionSpecID:    specID,
		Content:            content,
		SequenceNumber:     sequenceNumber,
		MinSequenceNumber:  minSequenceNumber,
		AddedSnapshotID:    addedSnapshotID,
		AddedFilesCount:    addedFiles,
		ExistingFilesCount: existingFiles,
		DeletedFilesCount:  deletedFiles,
		AddedRowsCount:     addedRows,
		ExistingRowsCount:  existingRows,
		DeletedRowsCount:   deletedRows,
		Partitions:         partitions,
		KeyMetadata:        keyMetadata,
	}, nil
}

func partitionsFromRaw(v interface{}) ([]FieldSummary, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, errors.Newf(errors.Shape, "partitions field has unexpected shape %T", v)
	}
	out := make([]FieldSummary, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.Shape, "partition summary has unexpected shape %T", item).
				AddContext("path", indexPath(i))
		}
		containsNull, _ := asBool(m["contains_null"])
		var containsNaN *bool
		if b, ok := asBool(m["contains_nan"]); ok {
			containsNaN = &b
		}
		lower, _ := asBytes(m["lower_bound"])
		upper, _ := asBytes(m["upper_bound"])
		out = append(out, FieldSummary{
			ContainsNull: containsNull,
			ContainsNaN:  containsNaN,
			LowerBound:   lower,
			UpperBound:   upper,
		})
	}
	return out, nil
}

func indexPath(i int) string {
	return "[" + itoa(i) + "]"
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func withPath(err error, path string) error {
	if err == nil {
		return nil
	}
	if ie, ok := err.(*errors.Error); ok {
		if ie.GetContext("path") == nil {
			ie.AddContext("path", path)
		}
		return ie
	}
	return err
}

func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v interface{}) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// firstInt32 checks the canonical field name first, falling back to the
// writer-quirk alias spelling (spec's *_data_files_count forms) when the
// canonical key is absent. Both spellings decode to the same slot; emit
// always uses the canonical name.
func firstInt32(raw map[string]interface{}, canonical, alias string) (int32, bool) {
	if v, ok := asInt32(raw[canonical]); ok {
		return v, true
	}
	return asInt32(raw[alias])
}

func asInt32(v interface{}) (int32, bool) {
	switch n := v.(type) {
	case int32:
		return n, true
	case int:
		return int32(n), true
	case int64:
		return int32(n), true
	default:
		return 0, false
	}
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

func asBytes(v interface{}) ([]byte, bool) {
	switch b := v.(type) {
	case []byte:
		return b, true
	case string:
		return []byte(b), true
	default:
		return nil, false
	}
}

// wireFieldSummary and wireRecordV2 mirror schemaV2's field names and
// nullable-union shapes for the encode path. Emit always uses the
// canonical field names from the schema it targets; the writer-quirk
// aliases are an input-only tolerance, never produced on output.
type wireFieldSummary struct {
	ContainsNull bool   `avro:"contains_null"`
	ContainsNaN  *bool  `avro:"contains_nan"`
	LowerBound   []byte `avro:"lower_bound"`
	UpperBound   []byte `avro:"upper_bound"`
}

type wireRecordV2 struct {
	ManifestPath       string             `avro:"manifest_path"`
	ManifestLength     int64              `avro:"manifest_length"`
	PartitionSpecID    int32              `avro:"partition_spec_id"`
	Content            int32              `avro:"content"`
	SequenceNumber     int64              `avro:"sequence_number"`
	MinSequenceNumber  int64              `avro:"min_sequence_number"`
	AddedSnapshotID    int64              `avro:"added_snapshot_id"`
	AddedFilesCount    int32              `avro:"added_files_count"`
	ExistingFilesCount int32              `avro:"existing_files_count"`
	DeletedFilesCount  int32              `avro:"deleted_files_count"`
	AddedRowsCount     int64              `avro:"added_rows_count"`
	ExistingRowsCount  int64              `avro:"existing_rows_count"`
	DeletedRowsCount   int64              `avro:"deleted_rows_count"`
	Partitions         []wireFieldSummary `avro:"partitions"`
	KeyMetadata        []byte             `avro:"key_metadata"`
}

// wireRecordV1 mirrors schemaV1's field names and nullable-union shapes:
// V1 has no content/sequence_number/min_sequence_number fields, and its
// six summary-count fields are nullable rather than defaulted integers.
type wireRecordV1 struct {
	ManifestPath       string             `avro:"manifest_path"`
	ManifestLength     int64              `avro:"manifest_length"`
	PartitionSpecID    int32              `avro:"partition_spec_id"`
	AddedSnapshotID    int64              `avro:"added_snapshot_id"`
	AddedFilesCount    *int32             `avro:"added_files_count"`
	ExistingFilesCount *int32             `avro:"existing_files_count"`
	DeletedFilesCount  *int32             `avro:"deleted_files_count"`
	AddedRowsCount     *int64             `avro:"added_rows_count"`
	ExistingRowsCount  *int64             `avro:"existing_rows_count"`
	DeletedRowsCount   *int64             `avro:"deleted_rows_count"`
	Partitions         []wireFieldSummary `avro:"partitions"`
	KeyMetadata        []byte             `avro:"key_metadata"`
}

func wireFieldSummariesFrom(partitions []FieldSummary) []wireFieldSummary {
	if partitions == nil {
		return nil
	}
	out := make([]wireFieldSummary, 0, len(partitions))
	for _, p := range partitions {
		out = append(out, wireFieldSummary{
			ContainsNull: p.ContainsNull,
			ContainsNaN:  p.ContainsNaN,
			LowerBound:   p.LowerBound,
			UpperBound:   p.UpperBound,
		})
	}
	return out
}

// EncodeV2 writes records as an Avro OCF manifest-list container using
// the V2 schema.
func EncodeV2(w io.Writer, records []Record) error {
	enc, err := ocf.NewEncoder(schemaV2, w)
	if err != nil {
		return errors.New(errors.Structural, "failed to initialize manifest-list writer", err)
	}
	for i, rec := range records {
		wire := wireRecordV2{
			ManifestPath:       rec.ManifestPath,
			ManifestLength:     rec.ManifestLength,
			PartitionSpecID:    rec.PartitionSpecID,
			Content:            int32(rec.Content),
			SequenceNumber:     rec.SequenceNumber,
			MinSequenceNumber:  rec.MinSequenceNumber,
			AddedSnapshotID:    rec.AddedSnapshotID,
			AddedFilesCount:    rec.AddedFilesCount,
			ExistingFilesCount: rec.ExistingFilesCount,
			DeletedFilesCount:  rec.DeletedFilesCount,
			AddedRowsCount:     rec.AddedRowsCount,
			ExistingRowsCount:  rec.ExistingRowsCount,
			DeletedRowsCount:   rec.DeletedRowsCount,
			Partitions:         wireFieldSummariesFrom(rec.Partitions),
			KeyMetadata:        rec.KeyMetadata,
		}
		if err := enc.Encode(wire); err != nil {
			return errors.New(errors.Structural, "failed to encode manifest-list record", err).
				AddContext("path", indexPath(i))
		}
	}
	return enc.Close()
}

// EncodeV1 writes records as an Avro OCF manifest-list container using
// the V1 schema, so a V1 writer's physical file round-trips through a
// genuine V1 container rather than always being upgraded to V2. Content,
// SequenceNumber, and MinSequenceNumber have no V1 wire slot and are
// dropped; the six summary-count fields are written as present (non-nil)
// values, since Record does not itself distinguish "absent" from "zero".
func EncodeV1(w io.Writer, records []Record) error {
	enc, err := ocf.NewEncoder(schemaV1, w)
	if err != nil {
		return errors.New(errors.Structural, "failed to initialize manifest-list writer", err)
	}
	for i, rec := range records {
		addedFiles, existingFiles, deletedFiles := rec.AddedFilesCount, rec.ExistingFilesCount, rec.DeletedFilesCount
		addedRows, existingRows, deletedRows := rec.AddedRowsCount, rec.ExistingRowsCount, rec.DeletedRowsCount
		wire := wireRecordV1{
			ManifestPath:       rec.ManifestPath,
			ManifestLength:     rec.ManifestLength,
			PartitionSpecID:    rec.PartitionSpecID,
			AddedSnapshotID:    rec.AddedSnapshotID,
			AddedFilesCount:    &addedFiles,
			ExistingFilesCount: &existingFiles,
			DeletedFilesCount:  &deletedFiles,
			AddedRowsCount:     &addedRows,
			ExistingRowsCount:  &existingRows,
			DeletedRowsCount:   &deletedRows,
			Partitions:         wireFieldSummariesFrom(rec.Partitions),
			KeyMetadata:        rec.KeyMetadata,
		}
		if err := enc.Encode(wire); err != nil {
			return errors.New(errors.Structural, "failed to encode manifest-list record", err).
				AddContext("path", indexPath(i))
		}
	}
	return enc.Close()
}

// EncodeBytesV2 is a convenience wrapper returning the V2-encoded
// container as a byte slice rather than writing through an io.Writer.
func EncodeBytesV2(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeV2(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeBytesV1 is a convenience wrapper returning the V1-encoded
// container as a byte slice rather than writing through an io.Writer.
func EncodeBytesV1(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeV1(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SchemaV1 and SchemaV2 expose the parsed Avro schemas for callers that
// need to validate a record's shape against a specific format version
// ahead of decoding, or inspect the schema directly.
func SchemaV1() avro.Schema { return parsedSchemaV1 }
func SchemaV2() avro.Schema { return parsedSchemaV2 }
