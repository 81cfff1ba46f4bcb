package armor

import (
	"bytes"
	"testing"

	"github.com/sealring/sealring/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArmorRoundTrip(t *testing.T) {
	payload := []byte{0xc3, 0x04, 0x04, 0x09, 0x03, 0x02}
	armored, err := ArmorWithType(payload, constants.PGPMessageHeader)
	require.NoError(t, err)
	assert.Contains(t, armored, "-----BEGIN PGP MESSAGE-----")
	assert.Contains(t, armored, "-----END PGP MESSAGE-----")

	body, err := Unarmor(armored)
	require.NoError(t, err)
	assert.Exactly(t, payload, body)
}

func TestArmorWriterRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, 300)
	var buf bytes.Buffer
	writer, err := ArmorWriterWithType(&buf, constants.PGPMessageHeader)
	require.NoError(t, err)
	_, err = writer.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	body, err := Unarmor(buf.String())
	require.NoError(t, err)
	assert.Exactly(t, payload, body)
}

func TestUnarmorRejectsGarbage(t *testing.T) {
	_, err := Unarmor("plain text, no armor at all")
	assert.Error(t, err)
}
