package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONB(t *testing.T) {
	meta := JSONB{"description": "Payment for GopherFest", "session_url": "https://pay.example.com/cs_123"}
	value, err := meta.Value()
	assert.Nil(t, err)

	var decoded JSONB
	assert.Nil(t, decoded.Scan([]byte(value.(string))))
	assert.Equal(t, "Payment for GopherFest", decoded["description"])

	assert.NotNil(t, decoded.Scan("not bytes"))
}
