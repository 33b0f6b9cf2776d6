package iceberg

import (
	"regexp"
	"strconv"

	"github.com/big-rs-little-rs/rustberg/pkg/errors"
)

// Shared grammars for the four string-parametric forms used across the
// schema type codec (fixed, decimal) and the transform codec (bucket,
// truncate). Compiled once at package init and reused by every call.
var (
	fixedPattern    = regexp.MustCompile(`^fixed\[(\d+)\]$`)
	decimalPattern  = regexp.MustCompile(`^decimal\((\d+)\s*,\s*(\d+)\)$`)
	bucketPattern   = regexp.MustCompile(`^bucket\[(\d+)\]$`)
	truncatePattern = regexp.MustCompile(`^truncate\[(\d+)\]$`)
)

func parseFixedLength(s string) (uint32, error) {
	m := fixedPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, errors.Newf(errors.FormatString, "invalid fixed type format: %q", s)
	}
	n, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return 0, errors.New(errors.FormatString, "invalid fixed type length", err).AddContext("input", s)
	}
	return uint32(n), nil
}

func parseDecimalParams(s string) (precision uint8, scale uint32, err error) {
	m := decimalPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, errors.Newf(errors.FormatString, "invalid decimal type format: %q", s)
	}
	p, perr := strconv.ParseUint(m[1], 10, 8)
	if perr != nil {
		return 0, 0, errors.New(errors.FormatString, "invalid decimal precision", perr).AddContext("input", s)
	}
	if p > 38 {
		return 0, 0, errors.Newf(errors.Domain, "decimal precision %d exceeds maximum of 38", p)
	}
	sc, serr := strconv.ParseUint(m[2], 10, 32)
	if serr != nil {
		return 0, 0, errors.New(errors.FormatString, "invalid decimal scale", serr).AddContext("input", s)
	}
	return uint8(p), uint32(sc), nil
}

func parseBucketN(s string) (uint32, error) {
	m := bucketPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, errors.Newf(errors.FormatString, "invalid bucket format: %q", s)
	}
	n, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return 0, errors.New(errors.FormatString, "invalid bucket count", err).AddContext("input", s)
	}
	return uint32(n), nil
}

func parseTruncateN(s string) (uint32, error) {
	m := truncatePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, errors.Newf(errors.FormatString, "invalid truncate format: %q", s)
	}
	n, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return 0, errors.New(errors.FormatString, "invalid truncate width", err).AddContext("input", s)
	}
	return uint32(n), nil
}

// withPath records the document path at the point an error first surfaced,
// so it survives further wrapping as the error bubbles up through the
// recursive descent. It never overwrites a path already set by a deeper
// call.
func withPath(err error, path string) error {
	if err == nil {
		return nil
	}
	if ie, ok := err.(*errors.Error); ok {
		if ie.Path() == "" {
			ie.AddContext("path", path)
		}
		return ie
	}
	return err
}
