package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/albapepper/courtside-data/internal/model"
	"github.com/albapepper/courtside-data/internal/parse"
	"github.com/albapepper/courtside-data/internal/store"
)

// ImportRoster loads the league roster document: players on the 30 teams,
// then the teams themselves. Both inserts are ordered.
func ImportRoster(ctx context.Context, st store.Store, r io.Reader, logger *slog.Logger) (result Result, err error) {
	result.Job = "roster"
	defer logFinal(logger, &result, &err)

	roster, err := parse.DecodeRoster(r)
	if err != nil {
		return result, err
	}
	result.Read = len(roster.RawPlayers) + len(roster.RawTeams)

	skippedPlayers, skippedTeams := roster.Skipped()
	result.Skipped = skippedPlayers + skippedTeams
	logger.Info("Roster decoded",
		"players", len(roster.RawPlayers), "teams", len(roster.RawTeams),
		"players_outside_league", skippedPlayers, "teams_outside_league", skippedTeams)

	var players []model.Player
	for i, p := range roster.Players() {
		if err := parse.Validate(p); err != nil {
			result.Skipf("player %d: %v", i, err)
			continue
		}
		players = append(players, p)
	}
	n, err := st.InsertPlayers(ctx, players)
	result.Inserted += n
	if err != nil {
		return result, fmt.Errorf("insert players: %w", err)
	}

	n, err = st.InsertTeams(ctx, roster.Teams())
	result.Inserted += n
	if err != nil {
		return result, fmt.Errorf("insert teams: %w", err)
	}
	return result, nil
}
