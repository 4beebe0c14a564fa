package parse

import (
	"fmt"
	"strings"
)

// PlayerIDPair is one row of the external id-to-name feed.
type PlayerIDPair struct {
	ID   string
	Name string
}

// PlayerIDRow reads an id feed row: "id" plus "full_name" (or "Player").
func PlayerIDRow(row Row) (PlayerIDPair, error) {
	pair := PlayerIDPair{
		ID:   strings.TrimSpace(row["id"]),
		Name: strings.TrimSpace(row.Get("full_name", "Player")),
	}
	if pair.ID == "" {
		return PlayerIDPair{}, fmt.Errorf("%w: id", ErrMissingField)
	}
	if pair.Name == "" {
		return PlayerIDPair{}, fmt.Errorf("%w: full_name", ErrMissingField)
	}
	return pair, nil
}
