// Package features builds the modeling table from the store: games joined
// with teamstats, a fixed predictor projection, and the W/L/D outcome recoded
// to class indices.
package features

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/padraicbc/footstats/db"
	"github.com/padraicbc/footstats/table"
)

// ErrSchemaMismatch marks upstream data drift: a missing expected column or
// an outcome label outside {W, L, D}. Fatal.
var ErrSchemaMismatch = errors.New("schema mismatch")

// ClassNames gives the fixed label order behind the class indices:
// L=0, W=1, D=2. Metric code relies on this order and it never changes.
var ClassNames = []string{"L", "W", "D"}

// PredictorNames is the fixed ordered projection of numeric team-game
// predictors, after the outcome column.
var PredictorNames = []string{
	"goals", "xGoals", "shots", "shotsOnTarget", "deep",
	"ppda", "fouls", "corners", "yellowCards", "redCards",
}

// SQLite's LEFT JOIN is native; the full outer join is spelled out as the
// left join plus the right-side complement. An engine quietly degrading the
// join to inner/left would change row counts, so the emulation is explicit.
const fullOuterJoinSQL = `
SELECT g.gameID AS gameID, g.season AS season, g.homeGoals AS homeGoals, g.awayGoals AS awayGoals,
       ts.teamID AS teamID, ts.location AS location, ts.result AS result,
       ts.goals AS goals, ts.xGoals AS xGoals, ts.shots AS shots,
       ts.shotsOnTarget AS shotsOnTarget, ts.deep AS deep, ts.ppda AS ppda,
       ts.fouls AS fouls, ts.corners AS corners,
       ts.yellowCards AS yellowCards, ts.redCards AS redCards
FROM games g
LEFT JOIN teamstats ts ON g.gameID = ts.gameID
UNION ALL
SELECT g.gameID, ts.season, g.homeGoals, g.awayGoals,
       ts.teamID, ts.location, ts.result,
       ts.goals, ts.xGoals, ts.shots,
       ts.shotsOnTarget, ts.deep, ts.ppda,
       ts.fouls, ts.corners,
       ts.yellowCards, ts.redCards
FROM teamstats ts
LEFT JOIN games g ON ts.gameID = g.gameID
WHERE g.gameID IS NULL
`

// FeatureTable is the assembled modeling input: one row per team-game with a
// known outcome.
type FeatureTable struct {
	Predictors []string
	X          [][]float64
	Y          []int
}

// NumRows returns the number of feature rows.
func (f *FeatureTable) NumRows() int { return len(f.Y) }

// Join executes the emulated full outer join of games and teamstats on
// gameID and returns the raw joined table.
func Join(ctx context.Context, store *db.Store) (*table.Table, error) {
	return store.Execute(ctx, fullOuterJoinSQL)
}

// Recode maps an outcome label to its class index.
func Recode(label string) (int, error) {
	for i, name := range ClassNames {
		if label == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: outcome label %q not in {W, L, D}", ErrSchemaMismatch, label)
}

// Assemble joins games and teamstats, projects the outcome plus the ten
// numeric predictors, and recodes the outcome. Join rows from games with no
// team line carry no outcome and are excluded, with the count logged; they
// only appear when the inputs themselves have drifted apart.
func Assemble(ctx context.Context, store *db.Store) (*FeatureTable, error) {
	joined, err := Join(ctx, store)
	if err != nil {
		return nil, err
	}
	return fromJoined(joined)
}

func fromJoined(joined *table.Table) (*FeatureTable, error) {
	resultIdx := joined.ColumnIndex("result")
	if resultIdx < 0 {
		return nil, fmt.Errorf("%w: column result missing after join", ErrSchemaMismatch)
	}
	predIdx := make([]int, len(PredictorNames))
	for i, name := range PredictorNames {
		idx := joined.ColumnIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: column %s missing after join", ErrSchemaMismatch, name)
		}
		predIdx[i] = idx
	}

	ft := &FeatureTable{Predictors: PredictorNames}
	unmatched := 0
	for r := range joined.Rows {
		cell := joined.Rows[r][resultIdx]
		if cell == nil {
			unmatched++
			continue
		}
		label, ok := cell.(string)
		if !ok {
			return nil, fmt.Errorf("%w: outcome value %v is not text", ErrSchemaMismatch, cell)
		}
		y, err := Recode(label)
		if err != nil {
			return nil, err
		}

		x := make([]float64, len(predIdx))
		for i, idx := range predIdx {
			v, err := joined.Float(r, idx)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
			}
			x[i] = v
		}
		ft.X = append(ft.X, x)
		ft.Y = append(ft.Y, y)
	}
	if unmatched > 0 {
		zap.L().Warn("games without team lines excluded from features",
			zap.Int("rows", unmatched))
	}
	return ft, nil
}
