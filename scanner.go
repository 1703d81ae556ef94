package pemkit

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/valyala/bytebufferpool"

	"github.com/sensiblebit/pemkit/base64"
)

const (
	beginPrefix = "-----BEGIN "
	endPrefix   = "-----END "
)

// MissingEndMarkerError reports that end-of-input was reached inside an
// open section, before its END line was seen.
type MissingEndMarkerError struct {
	// EndMarker is the line that was expected but never found,
	// e.g. "-----END CERTIFICATE-----".
	EndMarker string
}

func (e *MissingEndMarkerError) Error() string {
	return fmt.Sprintf("pemkit: section end %q missing", e.EndMarker)
}

// SectionSyntaxError reports a BEGIN line without the required five
// trailing hyphens.
type SectionSyntaxError struct {
	// Line is the offending line, trimmed of trailing whitespace.
	Line string
}

func (e *SectionSyntaxError) Error() string {
	return fmt.Sprintf("pemkit: illegal section start: %q", e.Line)
}

// bodyPool recycles section body buffers across Next calls.
var bodyPool bytebufferpool.Pool

// section is the state held between a recognized BEGIN line and its
// matching END line.
type section struct {
	label     string
	endMarker []byte
}

// scanner is the line-oriented state machine that extracts one item.
// It exists for the duration of a single Next or ReadOneFromSlice call.
type scanner struct {
	strict bool
	sec    *section
	body   *bytebufferpool.ByteBuffer
}

func newScanner(strict bool) *scanner {
	return &scanner{strict: strict, body: bodyPool.Get()}
}

func (s *scanner) release() {
	bodyPool.Put(s.body)
	s.body = nil
}

// step consumes one line (nil means end-of-input) and reports whether
// scanning is complete. On done with a nil item and nil error, the input
// is exhausted with no further sections.
func (s *scanner) step(line []byte) (item Item, done bool, err error) {
	if line == nil {
		if s.sec != nil {
			return nil, true, &MissingEndMarkerError{EndMarker: string(s.sec.endMarker)}
		}
		return nil, true, nil
	}

	if bytes.HasPrefix(line, []byte(beginPrefix)) {
		label, err := parseBegin(line)
		if err != nil {
			return nil, true, err
		}
		s.sec = &section{
			label:     label,
			endMarker: []byte(endPrefix + label + "-----"),
		}
		return nil, false, nil
	}

	if s.sec != nil && bytes.HasPrefix(line, s.sec.endMarker) {
		item, err := s.closeSection()
		if err != nil {
			return nil, true, err
		}
		if item != nil {
			return item, true, nil
		}
		// Unrecognized label: the section was discarded, keep scanning.
		return nil, false, nil
	}

	if s.sec != nil {
		_, _ = s.body.Write(trimTrailing(line))
	}
	return nil, false, nil
}

// closeSection decodes the accumulated body and classifies it by label.
// A nil item with nil error means the label is not recognized; the
// section is dropped without producing anything.
func (s *scanner) closeSection() (Item, error) {
	alphabet := base64.PEM
	if s.strict {
		alphabet = base64.Standard
	}
	der, err := base64.DecodeBytes(alphabet, s.body.B)
	if err != nil {
		return nil, fmt.Errorf("pemkit: decoding %s section body: %w", s.sec.label, err)
	}

	item := itemForLabel(s.sec.label, der)
	if item == nil {
		s.sec = nil
		s.body.Reset()
	}
	return item, nil
}

// parseBegin extracts the label from a line already known to start with
// "-----BEGIN ". Walking backwards, hyphens count toward the trailer and
// trailing whitespace is skipped; exactly five trailer hyphens are
// required.
func parseBegin(line []byte) (string, error) {
	trailer, pos := 0, len(line)
scan:
	for i := len(line) - 1; i >= 0; i-- {
		switch line[i] {
		case '-':
			trailer++
			pos = i
		case '\n', '\r', ' ':
		default:
			break scan
		}
	}
	if trailer != 5 {
		return "", &SectionSyntaxError{Line: string(trimTrailing(line))}
	}
	return string(line[len(beginPrefix):pos]), nil
}

// trimTrailing removes trailing CR, LF, and space bytes.
func trimTrailing(line []byte) []byte {
	return bytes.TrimRight(line, "\r\n ")
}

// Reader is a cursor over a PEM input stream. Each Next call consumes
// lines up to and including the next recognized section and returns its
// decoded item. A Reader is not safe for concurrent use.
type Reader struct {
	br *bufio.Reader

	// Strict selects the strict RFC 4648 alphabet for section bodies
	// instead of the default whitespace-tolerant RFC 7468 alphabet. It
	// must be set before the first Next call.
	Strict bool
}

// NewReader returns a Reader extracting items from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// Next extracts and decodes the next recognized PEM section.
//
// It returns io.EOF once the input is exhausted. Unrecognized sections
// and lines outside any section are skipped silently; syntax errors,
// base64 decode errors, and an unterminated section are returned as
// errors and terminate the parse.
func (r *Reader) Next() (Item, error) {
	s := newScanner(r.Strict)
	defer s.release()

	for {
		line, readErr := r.br.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, readErr
		}
		if len(line) == 0 {
			line = nil
		}

		item, done, err := s.step(line)
		if err != nil {
			return nil, err
		}
		if item != nil {
			return item, nil
		}
		if done {
			return nil, io.EOF
		}
	}
}

// ReadOneFromSlice extracts and decodes the next PEM section from input,
// returning the item and the unconsumed remainder of input. It is
// equivalent to Reader.Next for input already resident in memory and
// produces byte-identical items.
//
// It returns io.EOF once no section remains.
func ReadOneFromSlice(input []byte) (Item, []byte, error) {
	s := newScanner(false)
	defer s.release()

	for {
		var line []byte
		if i := bytes.IndexByte(input, '\n'); i >= 0 {
			line, input = input[:i+1], input[i+1:]
		} else if len(input) > 0 {
			// Final line without a terminator.
			line, input = input, nil
		}

		item, done, err := s.step(line)
		if err != nil {
			return nil, nil, err
		}
		if item != nil {
			return item, input, nil
		}
		if done {
			return nil, input, io.EOF
		}
	}
}
