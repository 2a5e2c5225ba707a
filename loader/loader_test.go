package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/footstats/config"
	"github.com/padraicbc/footstats/table"
)

func writeCSV(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadInfersTypes(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "shots.csv",
		"gameID,shooterID,assisterID,shotType,xGoal\n"+
			"81,555,777,RightFoot,0.12\n"+
			"81,556,,Head,0.03\n")

	tbl, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, []string{"gameID", "shooterID", "assisterID", "shotType", "xGoal"}, tbl.ColumnNames())
	assert.Equal(t, table.Integer, tbl.Columns[0].Kind)
	assert.Equal(t, table.Integer, tbl.Columns[2].Kind)
	assert.Equal(t, table.Text, tbl.Columns[3].Kind)
	assert.Equal(t, table.Float, tbl.Columns[4].Kind)

	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, int64(81), tbl.Rows[0][0])
	assert.Equal(t, int64(777), tbl.Rows[0][2])
	assert.Nil(t, tbl.Rows[1][2], "empty assisterID stays NULL")
	assert.Equal(t, 0.03, tbl.Rows[1][4])
}

func TestLoadIntegerNarrowsToFloatThenText(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "mixed.csv",
		"a,b\n1,1\n2.5,2\nx,3\n")

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, table.Text, tbl.Columns[0].Kind)
	assert.Equal(t, table.Integer, tbl.Columns[1].Kind)
	assert.Equal(t, "1", tbl.Rows[0][0], "a demoted to text keeps original lexemes")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestLoadAllFailsOnAnyMissingRelation(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		CSVDir: dir,
		RelationFiles: map[string]string{
			"teams":   "teams.csv",
			"players": "players.csv",
		},
	}
	writeCSV(t, dir, "teams.csv", "teamID,name\n1,Arsenal\n")

	_, err := LoadAll(cfg)
	assert.ErrorIs(t, err, ErrSourceUnavailable)

	writeCSV(t, dir, "players.csv", "playerID,name\n7,Son\n")
	tables, err := LoadAll(cfg)
	require.NoError(t, err)
	assert.Len(t, tables, 2)
	assert.Equal(t, 1, tables["teams"].NumRows())
}
