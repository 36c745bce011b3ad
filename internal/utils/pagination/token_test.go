package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	orderedAt := time.Date(2024, 3, 10, 14, 30, 45, 123456789, time.UTC)
	id := "9f6b2c44-1f5a-4f24-9f0a-1f9a1f1a2b3c"

	token := EncodeToken(orderedAt, id)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, orderedAt, decodedAt, "Timestamp should match after decode")
	assert.Equal(t, id, decodedID, "ID should match after decode")

	// Zero time round-trips too
	zeroToken := EncodeToken(time.Time{}, "")
	decodedZero, decodedEmpty, err := DecodeToken(zeroToken)
	assert.NoError(t, err)
	assert.Equal(t, time.Time{}, decodedZero)
	assert.Equal(t, "", decodedEmpty)

	// Current time keeps nanosecond precision
	now := time.Now().UTC()
	decodedNow, _, err := DecodeToken(EncodeToken(now, id))
	assert.NoError(t, err)
	assert.True(t, now.Equal(decodedNow), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	// Valid base64 but no separator
	_, _, err = DecodeToken("MjAyMy0wNS0xNVQwMDowMDowMFo=")
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split")

	// Base64 encoded "notadate|some-id"
	_, _, err = DecodeToken("bm90YWRhdGV8c29tZS1pZA==")
	assert.Error(t, err, "Should return an error for invalid time format")
	assert.Contains(t, err.Error(), "time parse")
}

func TestEncodeDecodeMultiFieldToken(t *testing.T) {
	fields := []string{"2024-03-10T00:00:00Z", "invoice-123", "OVERDUE"}
	token := EncodeMultiFieldToken(fields...)

	decoded, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err)
	assert.Equal(t, fields, decoded)

	_, err = DecodeMultiFieldToken("!!!")
	assert.Error(t, err)
}
