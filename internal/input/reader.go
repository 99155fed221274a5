// Package input loads lookup lists from files and stdin.
package input

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/tbckr/krwhois/internal/apperr"
)

// DefaultMaxLines caps how many lines LoadFile reads when no limit is given.
const DefaultMaxLines = 1_000_000

// utf8BOM is stripped from the start of input lists saved by spreadsheet tools.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read reads lines from r, trims whitespace, and returns non-empty lines.
// Blank lines, whitespace-only lines and lines starting with '#' are dropped.
func Read(r io.Reader) ([]string, error) {
	return ReadLimit(r, 0)
}

// ReadLimit is like Read but stops after maxLines lines (blank and comment
// lines included). A maxLines of 0 or less means no limit.
func ReadLimit(r io.Reader, maxLines int) ([]string, error) {
	var inputs []string
	scanner := bufio.NewScanner(r)
	lines := 0
	for scanner.Scan() {
		if maxLines > 0 && lines >= maxLines {
			break
		}
		lines++
		line := scanner.Text()
		if lines == 1 {
			line = strings.TrimPrefix(line, string(utf8BOM))
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return inputs, nil
}

// LoadFile reads a lookup list from path, reading at most maxLines lines
// (DefaultMaxLines when maxLines <= 0). Files that are not valid UTF-8 are
// decoded as EUC-KR, the legacy encoding of Korean Windows tools.
// A missing file yields apperr.ErrInputNotFound.
func LoadFile(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	r, err := decodeReader(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	items, err := ReadLimit(r, maxLines)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return items, nil
}

// decodeReader returns a UTF-8 reader over raw, converting from EUC-KR when
// raw is not valid UTF-8.
func decodeReader(raw []byte) (io.Reader, error) {
	if utf8.Valid(raw) {
		return bytes.NewReader(raw), nil
	}
	decoded, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), raw)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(decoded), nil
}
