package model

// Player is a rostered or log-derived player. GameLogs is a denormalized
// copy of the player's GameLog rows: it is overwritten wholesale by the
// game-log rebuild and never merged.
type Player struct {
	ID       string    `bson:"_id,omitempty" json:"_id,omitempty"`
	PlayerID string    `bson:"playerId,omitempty" json:"playerId,omitempty"`
	TID      *int      `bson:"tid,omitempty" json:"tid,omitempty" validate:"omitempty,min=0,max=29"`
	Team     string    `bson:"team,omitempty" json:"team,omitempty"`
	Name     string    `bson:"name" json:"name" validate:"required"`
	Pos      string    `bson:"pos,omitempty" json:"pos,omitempty"`
	ImgURL   string    `bson:"imgURL,omitempty" json:"imgURL,omitempty"`
	Stats    any       `bson:"stats,omitempty" json:"stats,omitempty"`
	GameLogs []GameLog `bson:"gameLogs" json:"gameLogs"`
}

// TIDPtr returns a pointer to tid, for building players in place.
func TIDPtr(tid int) *int {
	return &tid
}
