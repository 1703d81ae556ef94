package base64

import (
	"errors"
	"fmt"
)

// ErrOutputDoesNotFit is returned when the output slice is too short for
// the decoded bytes. Output already written from earlier complete quads
// remains valid; retrying with a larger buffer is safe.
var ErrOutputDoesNotFit = errors.New("base64: output does not fit")

// ErrDecoderDone is returned by Update or Finish after Finish has already
// been called on a Decoder.
var ErrDecoderDone = errors.New("base64: decoder already finished")

// InvalidInputError reports a byte that is invalid for the alphabet in
// use, or padding in a position other than trailing.
type InvalidInputError struct {
	// Offset of the offending byte, relative to the input slice of the
	// call that failed (not the whole stream). Finalization errors in
	// Finish report offset 0.
	Offset int
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("base64: invalid input at offset %d", e.Offset)
}

type padState uint8

// Padding must be trailing: the state only ever advances.
const (
	stateData padState = iota
	stateOnePad
	stateTwoPads
)

// Decoder is an incremental base64 decoder. Feed every chunk of input
// except the last to Update; feed the last (possibly empty) chunk to
// Finish. A Decoder must not be reused after Finish.
type Decoder struct {
	alpha *Alphabet
	quad  [4]uint8
	used  int
	state padState
	done  bool
}

// NewDecoder returns a Decoder for the given alphabet.
func NewDecoder(alphabet *Alphabet) *Decoder {
	return &Decoder{alpha: alphabet}
}

// Update decodes input into output and returns the number of bytes
// written to the start of output. It may be called any number of times
// with successive chunks of the stream.
func (d *Decoder) Update(input, output []byte) (int, error) {
	return d.process(input, output, false)
}

// Finish decodes the final chunk of input (which may be empty) into
// output, finalizes any pending partial quad using explicit or
// length-implied padding, and returns the number of bytes written.
func (d *Decoder) Finish(input, output []byte) (int, error) {
	n, err := d.process(input, output, true)
	d.done = true
	return n, err
}

func (d *Decoder) process(input, output []byte, last bool) (int, error) {
	if d.done {
		return 0, ErrDecoderDone
	}

	offs := 0
	for i, b := range input {
		switch code := d.alpha.classify(b); {
		case code == codeSkip:
			continue
		case code == codePad && d.state == stateData:
			d.state = stateOnePad
		case code == codePad && d.state == stateOnePad:
			d.state = stateTwoPads
		case code < 64 && d.state == stateData:
			d.quad[d.used] = code
			d.used++
		default:
			// Invalid byte, or a symbol after padding began.
			return offs, &InvalidInputError{Offset: i}
		}

		if d.used == 4 {
			n, err := d.emit(output[offs:], 0)
			if err != nil {
				return offs, err
			}
			offs += n
		}
	}

	if last {
		var pads int
		switch d.state {
		case stateOnePad:
			pads = 1
		case stateTwoPads:
			pads = 2
		}
		n, err := d.finishQuad(pads, output[offs:])
		if err != nil {
			return offs, err
		}
		offs += n
	}

	return offs, nil
}

// emit converts the accumulated quad into up to three output bytes,
// dropping the final pads bytes of the triple.
func (d *Decoder) emit(out []byte, pads int) (int, error) {
	a, b, c, e := d.quad[0], d.quad[1], d.quad[2], d.quad[3]
	d.used = 0

	triple := [3]byte{
		a<<2 | b>>4,
		(b&0xF)<<4 | c>>2,
		(c&0x3)<<6 | e,
	}
	n := 3 - pads
	if len(out) < n {
		return 0, ErrOutputDoesNotFit
	}
	return copy(out, triple[:n]), nil
}

// finishQuad emits the final partial quad. The accumulator may hold 0, 2,
// 3, or 4 symbol values combined with 0, 1, or 2 explicit pads; any other
// combination is invalid.
func (d *Decoder) finishQuad(pads int, out []byte) (int, error) {
	for i := 0; i < pads; i++ {
		if d.used == 4 {
			return 0, &InvalidInputError{Offset: 0}
		}
		d.quad[d.used] = 0
		d.used++
	}

	switch {
	case d.used == 0:
		return 0, nil
	case d.used == 4:
		return d.emit(out, pads)
	case d.used == 3 && pads == 0:
		// One padding symbol implied by length.
		d.quad[3] = 0
		return d.emit(out, 1)
	case d.used == 2 && pads == 0:
		// Two padding symbols implied by length.
		d.quad[2], d.quad[3] = 0, 0
		return d.emit(out, 2)
	default:
		return 0, &InvalidInputError{Offset: 0}
	}
}

// DecodeLenEstimate returns an upper bound on the decoded size of
// inputLen base64 bytes. The actual output may be shorter (it always is
// when the input contains padding or skipped whitespace), never longer.
func DecodeLenEstimate(inputLen int) int {
	return (inputLen + 3) / 4 * 3
}

// Decode is a one-shot decode of input into output, returning the number
// of bytes written to the start of output.
func Decode(alphabet *Alphabet, input, output []byte) (int, error) {
	return NewDecoder(alphabet).Finish(input, output)
}

// DecodeBytes is a one-shot decode that allocates its output. It cannot
// fail with ErrOutputDoesNotFit.
func DecodeBytes(alphabet *Alphabet, input []byte) ([]byte, error) {
	out := make([]byte, DecodeLenEstimate(len(input)))
	n, err := Decode(alphabet, input, out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}
