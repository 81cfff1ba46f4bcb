// Package internal contains internal methods and constants.
package internal

import (
	"bytes"
	"errors"
	"io"

	"github.com/sealring/sealring/constants"
)

// ArmorHeaders is a map of default armor headers.
var ArmorHeaders = map[string]string{}

func init() {
	if constants.ArmorHeaderEnabled {
		ArmorHeaders = map[string]string{
			"Version": constants.ArmorHeaderVersion,
			"Comment": constants.ArmorHeaderComment,
		}
	}
}

var armorPrefix = []byte("-----BEGIN PGP")

// IsArmored reports whether the given prefix bytes look like the start
// of an armored block. Leading whitespace is ignored.
func IsArmored(prefix []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(prefix, " \t\r\n"), armorPrefix)
}

// ResetReader is a reader that can be reset by buffering data internally.
type ResetReader struct {
	Reader     io.Reader
	buffer     *bytes.Buffer
	bufferData bool
}

// NewResetReader creates a new ResetReader with the default state.
func NewResetReader(reader io.Reader) *ResetReader {
	return &ResetReader{
		Reader:     reader,
		buffer:     bytes.NewBuffer(nil),
		bufferData: true,
	}
}

func (rr *ResetReader) Read(b []byte) (n int, err error) {
	n, err = rr.Reader.Read(b)
	if rr.bufferData {
		rr.buffer.Write(b[:n])
	}
	return
}

// DisableBuffering disables the internal buffering.
// After the disable, a Reset is not allowed anymore.
func (rr *ResetReader) DisableBuffering() {
	rr.bufferData = false
}

// Reset creates a reader that reads again from the beginning and
// resets the internal state.
func (rr *ResetReader) Reset() (io.Reader, error) {
	if !rr.bufferData {
		return nil, errors.New("reset not possible if buffering is disabled")
	}
	rr.Reader = io.MultiReader(rr.buffer, rr.Reader)
	rr.buffer = bytes.NewBuffer(nil)
	return rr.Reader, nil
}
