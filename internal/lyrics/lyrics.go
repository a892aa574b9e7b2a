package lyrics

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"beatsync/internal/services"
)

const stageLoad = "lines"

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// Parse reads lines from r. A UTF-8 or UTF-16 byte order mark selects the
// decoding and is dropped; without one the bytes must already be valid UTF-8.
// Line text is otherwise kept as written apart from surrounding whitespace.
func Parse(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(decode(r))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lines := []string{}
	number := 0
	for scanner.Scan() {
		number++
		raw := scanner.Text()
		if !utf8.ValidString(raw) {
			return nil, fmt.Errorf("line %d: invalid UTF-8", number)
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return lines, nil
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// decode drops a UTF-8 byte order mark and passes the remaining bytes
// through untouched. A UTF-16 mark converts the stream to UTF-8.
func decode(r io.Reader) io.Reader {
	buffered := bufio.NewReader(r)
	if head, _ := buffered.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		_, _ = buffered.Discard(len(utf8BOM))
		return buffered
	}
	return transform.NewReader(buffered, unicode.BOMOverride(transform.Nop))
}

// Load reads caption lines from path. It returns an ErrEmptyInput error when
// the file holds no usable line.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, stageLoad, "open", "cannot read lines file", err)
	}
	defer func() { _ = file.Close() }()

	lines, err := Parse(file)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, stageLoad, "parse", path, err)
	}
	if len(lines) == 0 {
		return nil, services.Wrap(services.ErrEmptyInput, stageLoad, "parse", fmt.Sprintf("no usable lines in %s", path), nil)
	}
	return lines, nil
}
