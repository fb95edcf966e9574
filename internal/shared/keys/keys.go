package keys

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Entity kinds that can appear inside a websafe key.
const (
	KindProfile    = "profile"
	KindConference = "conference"
	KindSession    = "session"
	KindSpeaker    = "speaker"
)

var ErrInvalidKey = errors.New("invalid entity key")

// Encode builds the opaque, URL-safe key token exposed on the wire for an
// entity. The token is reversible: it round-trips back to the entity kind
// and its id, so references in forms never leak raw database ids.
func Encode(kind string, id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(kind + ":" + id.String()))
}

// Decode parses a websafe key token and returns the embedded kind and id.
func Decode(token string) (string, uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", uuid.Nil, ErrInvalidKey
	}

	kind, idStr, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", uuid.Nil, ErrInvalidKey
	}

	switch kind {
	case KindProfile, KindConference, KindSession, KindSpeaker:
	default:
		return "", uuid.Nil, ErrInvalidKey
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return "", uuid.Nil, ErrInvalidKey
	}

	return kind, id, nil
}

// DecodeKind decodes a token and checks it references the expected kind.
func DecodeKind(token, wantKind string) (uuid.UUID, error) {
	kind, id, err := Decode(token)
	if err != nil {
		return uuid.Nil, err
	}
	if kind != wantKind {
		return uuid.Nil, fmt.Errorf("%w: expected %s key, got %s", ErrInvalidKey, wantKind, kind)
	}
	return id, nil
}
