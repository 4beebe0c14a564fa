package parse

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	"github.com/albapepper/courtside-data/internal/model"
)

// Roster is the league roster document: a players array and a teams array.
// tid is a pointer so a missing id is distinguishable from team 0.
type Roster struct {
	RawPlayers []RosterPlayer `json:"players"`
	RawTeams   []RosterTeam   `json:"teams"`
}

// RosterPlayer is a player entry as it appears in the roster file.
type RosterPlayer struct {
	TID    *int   `json:"tid"`
	Name   string `json:"name"`
	Pos    string `json:"pos"`
	ImgURL string `json:"imgURL"`
	Stats  any    `json:"stats"`
}

// RosterTeam is a team entry as it appears in the roster file.
type RosterTeam struct {
	TID         *int   `json:"tid"`
	Region      string `json:"region"`
	Name        string `json:"name"`
	Abbrev      string `json:"abbrev"`
	ImgURL      string `json:"imgURL"`
	ImgURLSmall string `json:"imgURLSmall"`
}

// DecodeRoster reads a roster JSON document.
func DecodeRoster(r io.Reader) (*Roster, error) {
	var roster Roster
	if err := sonic.ConfigDefault.NewDecoder(r).Decode(&roster); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return &roster, nil
}

func inRange(tid *int) bool {
	return tid != nil && model.ValidTID(*tid)
}

// Players returns rostered players on one of the 30 teams. Free agents,
// retired players and draft prospects (tid outside [0,29] or absent) are
// dropped. The stats payload is carried through untouched.
func (r *Roster) Players() []model.Player {
	out := make([]model.Player, 0, len(r.RawPlayers))
	for _, p := range r.RawPlayers {
		if !inRange(p.TID) {
			continue
		}
		out = append(out, model.Player{
			TID:      model.TIDPtr(*p.TID),
			Name:     p.Name,
			Pos:      p.Pos,
			ImgURL:   p.ImgURL,
			Stats:    p.Stats,
			GameLogs: []model.GameLog{},
		})
	}
	return out
}

// Teams returns the 30 franchises from the roster file.
func (r *Roster) Teams() []model.Team {
	out := make([]model.Team, 0, len(r.RawTeams))
	for _, t := range r.RawTeams {
		if !inRange(t.TID) {
			continue
		}
		out = append(out, model.Team{
			TID:         *t.TID,
			Region:      t.Region,
			Name:        t.Name,
			Abbrev:      t.Abbrev,
			ImgURL:      t.ImgURL,
			ImgURLSmall: t.ImgURLSmall,
		})
	}
	return out
}

// Skipped reports how many players and teams the tid filter drops.
func (r *Roster) Skipped() (players, teams int) {
	for _, p := range r.RawPlayers {
		if !inRange(p.TID) {
			players++
		}
	}
	for _, t := range r.RawTeams {
		if !inRange(t.TID) {
			teams++
		}
	}
	return players, teams
}
