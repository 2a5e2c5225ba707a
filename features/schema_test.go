package features

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/footstats/db"
	"github.com/padraicbc/footstats/table"
)

func appearancesTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New(
		intCol("playerID"), intCol("gameID"), intCol("goals"), intCol("assists"),
		floatCol("xGoals"), floatCol("xAssists"), intCol("yellowCard"), intCol("redCard"),
		intCol("time"), intCol("leagueID"),
	)
	require.NoError(t, tbl.Append([]any{int64(7), int64(500), int64(1), int64(0), 0.4, 0.1, int64(0), int64(0), int64(90), int64(1)}))
	return tbl
}

func shotsTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New(
		intCol("gameID"), intCol("shooterID"), intCol("assisterID"), intCol("minute"),
		textCol("situation"), textCol("lastAction"), textCol("shotType"), textCol("shotResult"),
		floatCol("xGoal"),
	)
	require.NoError(t, tbl.Append([]any{int64(500), int64(7), nil, int64(12), "OpenPlay", "Pass", "RightFoot", "Goal", 0.3}))
	return tbl
}

func refTable(t *testing.T, idName string, id int64, name string) *table.Table {
	t.Helper()
	tbl := table.New(intCol(idName), textCol("name"))
	require.NoError(t, tbl.Append([]any{id, name}))
	return tbl
}

// seedAllRelations registers a minimal, schema-complete copy of the seven
// relations.
func seedAllRelations(t *testing.T, store *db.Store) {
	ctx := context.Background()
	require.NoError(t, store.Register(ctx, "appearances", appearancesTable(t)))
	require.NoError(t, store.Register(ctx, "games", gamesTable(t, gameLine(500))))
	require.NoError(t, store.Register(ctx, "leagues", refTable(t, "leagueID", 1, "Premier League")))
	require.NoError(t, store.Register(ctx, "players", refTable(t, "playerID", 7, "Son")))
	require.NoError(t, store.Register(ctx, "shots", shotsTable(t)))
	require.NoError(t, store.Register(ctx, "teams", refTable(t, "teamID", 1, "Arsenal")))
	require.NoError(t, store.Register(ctx, "teamstats",
		teamstatsTable(t, statLine(500, 1, "W"), statLine(500, 2, "L"))))
}

func TestVerifySchemaAccepts(t *testing.T) {
	store := newStore(t)
	seedAllRelations(t, store)
	assert.NoError(t, VerifySchema(context.Background(), store))
}

func TestVerifySchemaMissingRelation(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Register(ctx, "games", gamesTable(t, gameLine(500))))

	err := VerifySchema(ctx, store)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestVerifySchemaMissingColumn(t *testing.T) {
	store := newStore(t)
	seed := func() {
		ctx := context.Background()
		require.NoError(t, store.Register(ctx, "appearances", appearancesTable(t)))
		require.NoError(t, store.Register(ctx, "games", gamesTable(t, gameLine(500))))
		require.NoError(t, store.Register(ctx, "leagues", refTable(t, "leagueID", 1, "Premier League")))
		require.NoError(t, store.Register(ctx, "players", refTable(t, "playerID", 7, "Son")))
		require.NoError(t, store.Register(ctx, "shots", shotsTable(t)))
		require.NoError(t, store.Register(ctx, "teams", refTable(t, "teamID", 1, "Arsenal")))
		// teamstats registered without its corners column
		tbl := table.New(intCol("gameID"), intCol("teamID"), textCol("result"))
		require.NoError(t, tbl.Append([]any{int64(500), int64(1), "W"}))
		require.NoError(t, store.Register(context.Background(), "teamstats", tbl))
	}
	seed()

	err := VerifySchema(context.Background(), store)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestVerifyOutcomesRejectsBadLabel(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Register(ctx, "teamstats",
		teamstatsTable(t, statLine(500, 1, "W"), statLine(500, 2, "Draw"))))

	err := VerifyOutcomes(ctx, store)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
