package model

// Team is a franchise with its identity (from the roster import) and its
// season aggregates (from the team-stats update job).
type Team struct {
	ID          string `bson:"_id,omitempty" json:"_id,omitempty"`
	TID         int    `bson:"tid" json:"tid" validate:"min=0,max=29"`
	Region      string `bson:"region" json:"region"`
	Name        string `bson:"name" json:"name"`
	Abbrev      string `bson:"abbrev" json:"abbrev"`
	ImgURL      string `bson:"imgURL" json:"imgURL"`
	ImgURLSmall string `bson:"imgURLSmall" json:"imgURLSmall"`

	Conf    string  `bson:"conf,omitempty" json:"conf,omitempty"`
	Div     string  `bson:"div,omitempty" json:"div,omitempty"`
	GP      float64 `bson:"gp" json:"gp"`
	PPG     float64 `bson:"ppg" json:"ppg"`
	OPPG    float64 `bson:"oppg" json:"oppg"`
	PDiff   float64 `bson:"pdiff" json:"pdiff"`
	Pace    float64 `bson:"pace" json:"pace"`
	OffRtg  float64 `bson:"offRtg" json:"offRtg"`
	DefRtg  float64 `bson:"defRtg" json:"defRtg"`
	RtgDiff float64 `bson:"Rtgdiff" json:"Rtgdiff"`
	SOS     float64 `bson:"sos" json:"sos"`
	Win     float64 `bson:"win" json:"win"`
	Loss    float64 `bson:"loss" json:"loss"`
	WinPct  float64 `bson:"winPct" json:"winPct"`
}

// TeamStats is the field set written by the team-stats update. Only these
// fields are touched; identity fields on the stored team are left alone.
type TeamStats struct {
	Conf    string  `bson:"conf" json:"conf"`
	Div     string  `bson:"div" json:"div"`
	GP      float64 `bson:"gp" json:"gp"`
	PPG     float64 `bson:"ppg" json:"ppg"`
	OPPG    float64 `bson:"oppg" json:"oppg"`
	PDiff   float64 `bson:"pdiff" json:"pdiff"`
	Pace    float64 `bson:"pace" json:"pace"`
	OffRtg  float64 `bson:"offRtg" json:"offRtg"`
	DefRtg  float64 `bson:"defRtg" json:"defRtg"`
	RtgDiff float64 `bson:"Rtgdiff" json:"Rtgdiff"`
	SOS     float64 `bson:"sos" json:"sos"`
	Win     float64 `bson:"win" json:"win"`
	Loss    float64 `bson:"loss" json:"loss"`
	WinPct  float64 `bson:"winPct" json:"winPct"`
}

// Apply copies the stat fields onto t.
func (s TeamStats) Apply(t *Team) {
	t.Conf = s.Conf
	t.Div = s.Div
	t.GP = s.GP
	t.PPG = s.PPG
	t.OPPG = s.OPPG
	t.PDiff = s.PDiff
	t.Pace = s.Pace
	t.OffRtg = s.OffRtg
	t.DefRtg = s.DefRtg
	t.RtgDiff = s.RtgDiff
	t.SOS = s.SOS
	t.Win = s.Win
	t.Loss = s.Loss
	t.WinPct = s.WinPct
}
