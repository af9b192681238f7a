package utils

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageCodec(t *testing.T) {
	key, err := hex.DecodeString("6368616e676520746869732070617373776f726420746f206120736563726574")
	assert.Nil(t, err)

	payload, _ := json.Marshal(map[string]any{"ticketId": 42, "attendee": "Jordan Lee"})
	encrypted, err := EncryptMessage(key, string(payload))
	assert.Nil(t, err)
	assert.NotEqual(t, string(payload), encrypted)

	decrypted, err := DecryptMessage(key, encrypted)
	assert.Nil(t, err)
	assert.Equal(t, string(payload), *decrypted)

	var rawData map[string]any
	assert.Nil(t, json.Unmarshal([]byte(*decrypted), &rawData))
	assert.Equal(t, float64(42), rawData["ticketId"])
	assert.Equal(t, "Jordan Lee", rawData["attendee"])

	otherKey, _ := hex.DecodeString("0000000000000000000000000000000000000000000000000000000000000000")
	_, err = DecryptMessage(otherKey, encrypted)
	assert.NotNil(t, err)

	_, err = DecryptMessage(key, "not-hex")
	assert.NotNil(t, err)
}
