// Package queries holds the fixed catalog of read-only SQL statements run
// against the store. The catalog carries no state and no semantics of its
// own: each entry is executed verbatim and its result returned as an opaque
// table. Engine errors surface unchanged.
package queries

import (
	"context"

	"go.uber.org/zap"

	"github.com/padraicbc/footstats/db"
	"github.com/padraicbc/footstats/table"
)

// Query is one named catalog entry.
type Query struct {
	Name string
	Doc  string
	SQL  string
}

// Result pairs a catalog entry with its materialized rows.
type Result struct {
	Query Query
	Table *table.Table
}

const playerCardsSQL = `
SELECT playerID, gameID,
       yellowCard + redCard AS totalCards,
       CAST(playerID AS TEXT) || '-' || CAST(gameID AS TEXT) AS uniqueID
FROM appearances
ORDER BY playerID, gameID
`

const shotSharesSQL = `
SELECT shotResult,
       COUNT(*) * 100.0 / (SELECT COUNT(*) FROM shots) AS pct
FROM shots
GROUP BY shotResult
ORDER BY pct DESC
`

// Catalog is the full statement list, in presentation order.
var Catalog = []Query{
	{
		Name: "players_subset",
		Doc:  "column-subset projection with LIMIT",
		SQL:  `SELECT playerID, name FROM players ORDER BY playerID LIMIT 10`,
	},
	{
		Name: "leagues_all",
		Doc:  "full projection of a reference table",
		SQL:  `SELECT * FROM leagues`,
	},
	{
		Name: "team_name_functions",
		Doc:  "scalar functions in the projection",
		SQL:  `SELECT name, UPPER(name) AS upperName, LENGTH(name) AS nameLength FROM teams ORDER BY name`,
	},
	{
		Name: "high_scoring_games",
		Doc:  "WHERE over an arithmetic expression",
		SQL:  `SELECT gameID, homeGoals, awayGoals FROM games WHERE homeGoals + awayGoals >= 5 ORDER BY gameID`,
	},
	{
		Name: "busiest_attacks",
		Doc:  "descending ORDER BY",
		SQL:  `SELECT gameID, teamID, shots FROM teamstats ORDER BY shots DESC, gameID`,
	},
	{
		Name: "prolific_teams",
		Doc:  "GROUP BY with a HAVING filter on the aggregate",
		SQL: `SELECT teamID, COUNT(*) AS games, SUM(goals) AS totalGoals
FROM teamstats
GROUP BY teamID
HAVING SUM(goals) >= 50
ORDER BY totalGoals DESC`,
	},
	{
		Name: "shot_assisters",
		Doc:  "two-way LEFT JOIN keeping unassisted shots",
		SQL: `SELECT s.gameID, s.shotResult, p.name AS assister
FROM shots s
LEFT JOIN players p ON s.assisterID = p.playerID
ORDER BY s.gameID`,
	},
	{
		Name: "scorer_lines",
		Doc:  "three-way INNER JOIN",
		SQL: `SELECT p.name, g.date, a.goals, a.assists
FROM appearances a
INNER JOIN players p ON a.playerID = p.playerID
INNER JOIN games g ON a.gameID = g.gameID
ORDER BY g.date, p.name`,
	},
	{
		Name: "player_cards",
		Doc:  "derived columns: card arithmetic plus a concatenated row key",
		SQL:  playerCardsSQL,
	},
	{
		Name: "average_shot_quality",
		Doc:  "AVG aggregate",
		SQL:  `SELECT AVG(xGoal) AS avgXGoal FROM shots`,
	},
	{
		Name: "scoreline_extremes",
		Doc:  "MAX and MIN aggregates",
		SQL:  `SELECT MAX(homeGoals) AS maxHomeGoals, MIN(homeGoals) AS minHomeGoals FROM games`,
	},
	{
		Name: "season_goal_totals",
		Doc:  "SUM with GROUP BY",
		SQL:  `SELECT season, SUM(homeGoals + awayGoals) AS goals FROM games GROUP BY season ORDER BY season`,
	},
	{
		Name: "shot_result_shares",
		Doc:  "scalar subquery in the projection: share of shots per result",
		SQL:  shotSharesSQL,
	},
	{
		Name: "team_wins",
		Doc:  "correlated scalar subquery per team",
		SQL: `SELECT t.name,
       (SELECT COUNT(*) FROM teamstats ts WHERE ts.teamID = t.teamID AND ts.result = 'W') AS wins
FROM teams t
ORDER BY wins DESC, t.name`,
	},
	{
		Name: "average_team_total",
		Doc:  "derived-table subquery in FROM",
		SQL: `SELECT AVG(teamGoals) AS avgTeamGoals
FROM (SELECT teamID, SUM(goals) AS teamGoals FROM teamstats GROUP BY teamID)`,
	},
}

// Get returns the catalog entry with the given name.
func Get(name string) (Query, bool) {
	for _, q := range Catalog {
		if q.Name == name {
			return q, true
		}
	}
	return Query{}, false
}

// RunAll executes the whole catalog in order against the store.
func RunAll(ctx context.Context, store *db.Store) ([]Result, error) {
	results := make([]Result, 0, len(Catalog))
	for _, q := range Catalog {
		t, err := store.Execute(ctx, q.SQL)
		if err != nil {
			return nil, err
		}
		zap.L().Info("catalog query",
			zap.String("name", q.Name),
			zap.Int("rows", t.NumRows()),
			zap.Int("columns", len(t.Columns)),
		)
		results = append(results, Result{Query: q, Table: t})
	}
	return results, nil
}
