package model

// GameLog is one player's boxscore line for one game. Rows are written
// once per import and never updated.
type GameLog struct {
	ID         string `bson:"_id,omitempty" json:"_id,omitempty"`
	PlayerID   string `bson:"playerId" json:"playerId" validate:"required"`
	PlayerName string `bson:"playerName,omitempty" json:"playerName,omitempty"`

	Team     string `bson:"team" json:"team"`
	Opponent string `bson:"opponent" json:"opponent"`
	Result   string `bson:"result" json:"result"`

	MinutesPlayed        float64 `bson:"minutesPlayed" json:"minutesPlayed"`
	FieldGoals           int     `bson:"fieldGoals" json:"fieldGoals"`
	FieldGoalAttempts    int     `bson:"fieldGoalAttempts" json:"fieldGoalAttempts"`
	FieldGoalPercentage  float64 `bson:"fieldGoalPercentage" json:"fieldGoalPercentage"`
	ThreePointers        int     `bson:"threePointers" json:"threePointers"`
	ThreePointAttempts   int     `bson:"threePointAttempts" json:"threePointAttempts"`
	ThreePointPercentage float64 `bson:"threePointPercentage" json:"threePointPercentage"`
	FreeThrows           int     `bson:"freeThrows" json:"freeThrows"`
	FreeThrowAttempts    int     `bson:"freeThrowAttempts" json:"freeThrowAttempts"`
	FreeThrowPercentage  float64 `bson:"freeThrowPercentage" json:"freeThrowPercentage"`
	OffensiveRebounds    int     `bson:"offensiveRebounds" json:"offensiveRebounds"`
	DefensiveRebounds    int     `bson:"defensiveRebounds" json:"defensiveRebounds"`
	TotalRebounds        int     `bson:"totalRebounds" json:"totalRebounds"`
	Assists              int     `bson:"assists" json:"assists"`
	Steals               int     `bson:"steals" json:"steals"`
	Blocks               int     `bson:"blocks" json:"blocks"`
	Turnovers            int     `bson:"turnovers" json:"turnovers"`
	PersonalFouls        int     `bson:"personalFouls" json:"personalFouls"`
	Points               int     `bson:"points" json:"points"`
	PlusMinus            float64 `bson:"plusMinus" json:"plusMinus"`
	VideoAvailable       int     `bson:"videoAvailable" json:"videoAvailable"`

	// GameScore is reserved for a derived rating; imports always write 0.
	GameScore float64 `bson:"gameScore" json:"gameScore"`

	GameDate  string `bson:"gameDate" json:"gameDate"`
	DateAdded string `bson:"dateAdded" json:"dateAdded"`
}
