package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, in string, opts CSVOptions) []Row {
	t.Helper()
	var rows []Row
	err := ReadCSV(strings.NewReader(in), opts, func(_ int, row Row) error {
		rows = append(rows, row)
		return nil
	})
	require.NoError(t, err)
	return rows
}

func TestReadCSV_TrimHeaders(t *testing.T) {
	in := " tid , CONF ,GP\n3,West,82\n"

	raw := collect(t, in, CSVOptions{})
	require.Len(t, raw, 1)
	assert.Equal(t, "", raw[0]["tid"])
	assert.Equal(t, "3", raw[0][" tid "])

	trimmed := collect(t, in, CSVOptions{TrimHeaders: true})
	assert.Equal(t, "3", trimmed[0]["tid"])
	assert.Equal(t, "West", trimmed[0]["CONF"])
}

func TestReadCSV_ShortRowsAndBOM(t *testing.T) {
	in := "\ufeffPlayer_ID,MATCHUP,PTS\n2544,LAL @ BOS\n"

	rows := collect(t, in, CSVOptions{})
	require.Len(t, rows, 1)
	assert.Equal(t, "2544", rows[0]["Player_ID"])
	assert.Equal(t, "", rows[0]["PTS"])
}

func TestReadCSV_EmptyInput(t *testing.T) {
	assert.Empty(t, collect(t, "", CSVOptions{}))
}

func TestReadCSV_CallbackErrorStops(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := ReadCSV(strings.NewReader("a\n1\n2\n3\n"), CSVOptions{}, func(line int, _ Row) error {
		calls++
		if line == 3 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, calls)
}

func TestRowGet(t *testing.T) {
	row := Row{"tid": "", "TID": "4"}
	assert.Equal(t, "4", row.Get("tid", "Tid", "TID"))
	assert.Equal(t, "", row.Get("missing"))
}
