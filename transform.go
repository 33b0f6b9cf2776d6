package iceberg

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/big-rs-little-rs/rustberg/pkg/errors"
)

// TransformKind enumerates the closed set of partition/sort transforms.
type TransformKind int

const (
	TransformIdentity TransformKind = iota
	TransformYear
	TransformMonth
	TransformDay
	TransformHour
	TransformBucket
	TransformTruncate
)

var transformNameToKind = map[string]TransformKind{
	"identity": TransformIdentity,
	"year":     TransformYear,
	"month":    TransformMonth,
	"day":      TransformDay,
	"hour":     TransformHour,
}

var transformKindToName = map[TransformKind]string{
	TransformIdentity: "identity",
	TransformYear:     "year",
	TransformMonth:    "month",
	TransformDay:      "day",
	TransformHour:     "hour",
}

// Transform is a transform expression. N is meaningful only when Kind is
// TransformBucket or TransformTruncate.
type Transform struct {
	Kind TransformKind
	N    uint32
}

// ParseTransform decodes the string form of a transform.
func ParseTransform(s string) (Transform, error) {
	switch {
	case strings.HasPrefix(s, "bucket"):
		n, err := parseBucketN(s)
		if err != nil {
			return Transform{}, err
		}
		return Transform{Kind: TransformBucket, N: n}, nil
	case strings.HasPrefix(s, "truncate"):
		n, err := parseTruncateN(s)
		if err != nil {
			return Transform{}, err
		}
		return Transform{Kind: TransformTruncate, N: n}, nil
	default:
		kind, ok := transformNameToKind[s]
		if !ok {
			return Transform{}, errors.Newf(errors.Domain, "unknown transform %q", s)
		}
		return Transform{Kind: kind}, nil
	}
}

// String returns the canonical wire form of the transform.
func (t Transform) String() string {
	switch t.Kind {
	case TransformBucket:
		return fmt.Sprintf("bucket[%d]", t.N)
	case TransformTruncate:
		return fmt.Sprintf("truncate[%d]", t.N)
	default:
		return transformKindToName[t.Kind]
	}
}

func (t Transform) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Transform) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New(errors.Structural, "malformed transform string", err)
	}
	parsed, err := ParseTransform(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// PartitionField is a single partitioning declaration.
type PartitionField struct {
	SourceID  int32     `json:"source-id"`
	FieldID   int32     `json:"field-id"`
	Name      string    `json:"name"`
	Transform Transform `json:"transform"`
}

// PartitionSpec is an ordered sequence of partition fields under a spec-id.
type PartitionSpec struct {
	SpecID int32            `json:"spec-id"`
	Fields []PartitionField `json:"fields"`
}

// Direction is a sort field's ordering direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New(errors.Structural, "malformed sort direction", err)
	}
	switch s {
	case "asc":
		*d = Asc
	case "desc":
		*d = Desc
	default:
		return errors.Newf(errors.Domain, "unknown sort direction %q", s)
	}
	return nil
}

// NullOrder is a sort field's null placement.
type NullOrder int

const (
	NullsFirst NullOrder = iota
	NullsLast
)

func (n NullOrder) String() string {
	if n == NullsLast {
		return "nulls-last"
	}
	return "nulls-first"
}

func (n NullOrder) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

func (n *NullOrder) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New(errors.Structural, "malformed null order", err)
	}
	switch s {
	case "nulls-first":
		*n = NullsFirst
	case "nulls-last":
		*n = NullsLast
	default:
		return errors.Newf(errors.Domain, "unknown null order %q", s)
	}
	return nil
}

// SortField is a single sort declaration.
type SortField struct {
	Transform Transform `json:"transform"`
	SourceID  int32     `json:"source-id"`
	Direction Direction `json:"direction"`
	NullOrder NullOrder `json:"null-order"`
}

// SortOrder is an ordered sequence of sort fields under an order-id.
type SortOrder struct {
	OrderID int32       `json:"order-id"`
	Fields  []SortField `json:"fields"`
}
