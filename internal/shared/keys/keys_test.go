package keys

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, kind := range []string{KindProfile, KindConference, KindSession, KindSpeaker} {
		t.Run(kind, func(t *testing.T) {
			id := uuid.New()
			token := Encode(kind, id)

			gotKind, gotID, err := Decode(token)
			require.NoError(t, err)
			assert.Equal(t, kind, gotKind)
			assert.Equal(t, id, gotID)
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"no separator", "aGVsbG8"}, // "hello"
		{"unknown kind", Encode("order", uuid.New())},
		{"bad uuid", "Y29uZmVyZW5jZTpub3QtYS11dWlk"}, // "conference:not-a-uuid"
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.token)
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestDecodeKindMismatch(t *testing.T) {
	token := Encode(KindSession, uuid.New())

	_, err := DecodeKind(token, KindConference)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestDecodeKindMatch(t *testing.T) {
	id := uuid.New()
	token := Encode(KindSpeaker, id)

	got, err := DecodeKind(token, KindSpeaker)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
