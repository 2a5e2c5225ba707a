package features

import (
	"context"
	"fmt"
	"reflect"

	"github.com/padraicbc/footstats/db"
	"github.com/padraicbc/footstats/models"
)

// relationModels maps each relation to its model, in registration order.
var relationModels = []struct {
	name  string
	model any
}{
	{"appearances", (*models.Appearance)(nil)},
	{"games", (*models.Game)(nil)},
	{"leagues", (*models.League)(nil)},
	{"players", (*models.Player)(nil)},
	{"shots", (*models.Shot)(nil)},
	{"teams", (*models.Team)(nil)},
	{"teamstats", (*models.TeamStat)(nil)},
}

// VerifySchema checks that all seven relations are registered and that each
// carries every column its model declares. A shortfall is upstream data
// drift, reported as ErrSchemaMismatch.
func VerifySchema(ctx context.Context, store *db.Store) error {
	for _, rm := range relationModels {
		tbl, err := store.Execute(ctx,
			fmt.Sprintf(`SELECT name FROM pragma_table_info('%s')`, rm.name))
		if err != nil {
			return err
		}
		if tbl.NumRows() == 0 {
			return fmt.Errorf("%w: relation %s not registered", ErrSchemaMismatch, rm.name)
		}

		have := map[string]bool{}
		for _, row := range tbl.Rows {
			if name, ok := row[0].(string); ok {
				have[name] = true
			}
		}

		meta := store.DB().Table(reflect.TypeOf(rm.model).Elem())
		for _, f := range meta.Fields {
			if !have[f.Name] {
				return fmt.Errorf("%w: relation %s missing column %s",
					ErrSchemaMismatch, rm.name, f.Name)
			}
		}
	}
	return VerifyOutcomes(ctx, store)
}

// outcomeCount is a flat scan target for the result-domain check.
type outcomeCount struct {
	Result string `bun:"result"`
	N      int64  `bun:"n"`
}

// VerifyOutcomes confirms every teamstats result is one of W, L, D before
// any recoding happens.
func VerifyOutcomes(ctx context.Context, store *db.Store) error {
	var rows []outcomeCount
	err := store.DB().NewRaw(
		`SELECT result, COUNT(*) AS n FROM teamstats GROUP BY result`,
	).Scan(ctx, &rows)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := Recode(r.Result); err != nil {
			return fmt.Errorf("%w (%d rows)", err, r.N)
		}
	}
	return nil
}
