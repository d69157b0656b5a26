package data

// List endpoints paginate with opaque continuation tokens rather than
// offsets. A token encodes the keyset position (created_at, id) of the last
// row of the previous page.

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type cursorPayload struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

func encodeCursor(createdAt time.Time, id string) (string, error) {
	raw, err := json.Marshal(cursorPayload{CreatedAt: createdAt, ID: id})
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func decodeCursor(token string) (cursorPayload, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return cursorPayload{}, fmt.Errorf("decode cursor: %w", err)
	}

	var cur cursorPayload
	if err := json.Unmarshal(raw, &cur); err != nil {
		return cursorPayload{}, fmt.Errorf("unmarshal cursor: %w", err)
	}
	if cur.ID == "" || cur.CreatedAt.IsZero() {
		return cursorPayload{}, errors.New("invalid cursor payload")
	}
	return cur, nil
}

// clampLimit applies the default and maximum page sizes shared by all lists.
func clampLimit(limit int) int {
	const (
		defaultLimit = 50
		maxLimit     = 200
	)
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
