// Command tablefmt is a thin decode/encode shim over the iceberg and
// manifestlist codec packages: it round-trips a table-metadata document
// or a manifest-list container through the library and writes the
// result back out, to exercise the codec from the command line without
// pulling in a catalog or any I/O layer.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/big-rs-little-rs/rustberg"
	"github.com/big-rs-little-rs/rustberg/manifestlist"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().
		Timestamp().
		Str("cmd", "tablefmt").
		Logger()

	var (
		kind = flag.String("kind", "metadata", `document kind to process: "metadata" or "manifest-list"`)
		in   = flag.String("in", "-", `input path, or "-" for stdin`)
		out  = flag.String("out", "-", `output path, or "-" for stdout`)
	)
	flag.Parse()

	if err := run(*kind, *in, *out); err != nil {
		logger.Error().Err(err).Str("kind", *kind).Msg("tablefmt failed")
		os.Exit(1)
	}
}

func run(kind, inPath, outPath string) error {
	src, err := openInput(inPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	switch kind {
	case "metadata":
		return roundTripMetadata(src, dst)
	case "manifest-list":
		return roundTripManifestList(src, dst)
	default:
		return fmt.Errorf("unknown -kind %q, expected \"metadata\" or \"manifest-list\"", kind)
	}
}

func roundTripMetadata(src io.Reader, dst io.Writer) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	doc, err := iceberg.DecodeDocument(data)
	if err != nil {
		return fmt.Errorf("decoding metadata document: %w", err)
	}
	out, err := iceberg.EncodeDocument(doc)
	if err != nil {
		return fmt.Errorf("encoding metadata document: %w", err)
	}
	_, err = dst.Write(out)
	return err
}

func roundTripManifestList(src io.Reader, dst io.Writer) error {
	records, err := manifestlist.Decode(src)
	if err != nil {
		return fmt.Errorf("decoding manifest list: %w", err)
	}
	return manifestlist.EncodeV2(dst, records)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input %q: %w", path, err)
	}
	return f, nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output %q: %w", path, err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
