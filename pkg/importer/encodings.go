package importer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Attempt - one step of the encoding retry policy: which encoding to read the
// file as, and whether malformed rows are skipped instead of aborting the load.
type Attempt struct {
	// Encoding - human-readable label, surfaced in status texts
	Encoding string

	// Native - value for the reader's encoding parameter when the store can
	// decode the file directly; empty means the file is first transcoded to a
	// UTF-8 staging copy
	Native string

	// Charmap - transcoder used when Native is empty
	Charmap encoding.Encoding

	// IgnoreErrors - relaxed second-phase mode: skip malformed rows
	IgnoreErrors bool
}

// DefaultPolicy returns the ordered encoding attempts for one data file. The
// first phase tries every candidate strictly; if all fail with
// encoding-related errors, a short second phase retries with row-level error
// tolerance. First success wins.
//
// A descriptor's UTF8 marker does not shorten the ladder; real exports lie
// about their encoding often enough, and UTF-8 already leads the list.
//
// The store decodes utf-8, latin-1 and utf-16 natively; the remaining code
// pages are transcoded to a UTF-8 staging copy before loading.
func DefaultPolicy() []Attempt {
	strict := []Attempt{
		{Encoding: "utf-8", Native: "utf-8"},
		{Encoding: "latin-1", Native: "latin-1"},
		{Encoding: "windows-1252", Charmap: charmap.Windows1252},
		{Encoding: "windows-1250", Charmap: charmap.Windows1250},
		{Encoding: "iso-8859-15", Charmap: charmap.ISO8859_15},
		{Encoding: "cp850", Charmap: charmap.CodePage850},
		{Encoding: "cp437", Charmap: charmap.CodePage437},
		{Encoding: "utf-16", Native: "utf-16"},
	}
	relaxed := []Attempt{
		{Encoding: "utf-8", Native: "utf-8", IgnoreErrors: true},
		{Encoding: "latin-1", Native: "latin-1", IgnoreErrors: true},
	}

	return append(strict, relaxed...)
}

// IsEncodingError classifies a load error by substring match against the
// store's reported text. Only encoding-classified errors keep the retry loop
// going; anything else is reported verbatim and short-circuits the search.
func IsEncodingError(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "unicode") ||
		strings.Contains(text, "encoding") ||
		strings.Contains(text, "utf-8")
}

// stageTranscoded writes a UTF-8 copy of srcPath decoded with enc into a
// temporary file and returns its path. The caller removes the file.
func stageTranscoded(srcPath string, enc encoding.Encoding) (string, error) {
	in, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open data file: %w", err)
	}
	defer in.Close()

	out, err := os.CreateTemp("", "gdpdu-transcode-*.csv")
	if err != nil {
		return "", fmt.Errorf("failed to create staging file: %w", err)
	}

	_, err = io.Copy(out, transform.NewReader(in, enc.NewDecoder()))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("failed to transcode data file: %w", err)
	}

	return out.Name(), nil
}
