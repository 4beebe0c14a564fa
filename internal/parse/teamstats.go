package parse

import "github.com/albapepper/courtside-data/internal/model"

// TeamStatRow maps one team-stats row. Headers are expected to be trimmed by
// the reader (CSVOptions.TrimHeaders). Rows whose tid is not an integer in
// [0,29] return ErrInvalidTID.
func TeamStatRow(row Row) (int, model.TeamStats, error) {
	tid, err := TID(row.Get("tid", "Tid", "TID"))
	if err != nil {
		return 0, model.TeamStats{}, err
	}

	return tid, model.TeamStats{
		Conf:    row["CONF"],
		Div:     row["DIVISION"],
		GP:      FloatStripCommas(row["GP"]),
		PPG:     FloatStripCommas(row["PPG"]),
		OPPG:    FloatStripCommas(row["oPPG"]),
		PDiff:   FloatStripCommas(row["pDIFF"]),
		Pace:    FloatStripCommas(row["PACE"]),
		OffRtg:  FloatStripCommas(row["oEFF"]),
		DefRtg:  FloatStripCommas(row["dEFF"]),
		RtgDiff: FloatStripCommas(row["eDIFF"]),
		SOS:     FloatStripCommas(row["SoS"]),
		Win:     FloatStripCommas(row["W"]),
		Loss:    FloatStripCommas(row["L"]),
		WinPct:  FloatStripCommas(row["WIN%"]),
	}, nil
}
