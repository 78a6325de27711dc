package apex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"apexvle/internal/logging"

	"golang.org/x/sync/errgroup"
)

// Property abbreviations as stored in Property.Abbr.
const (
	PropMW    = "MW"    // molecular weight
	PropTB    = "TB"    // normal boiling point
	PropTC    = "TC"    // critical temperature
	PropPC    = "PC"    // critical pressure
	PropVC    = "VC"    // critical volume
	PropOmega = "OMEGA" // acentric factor
)

// ChemInfo is the identity row for one chemical species.
type ChemInfo struct {
	ChemID  int64
	CASN    string
	Name    string
	Formula string
}

// ChemIDFromCAS resolves a CAS registry number to its Apex ChemID.
func (s *Session) ChemIDFromCAS(ctx context.Context, cas string) (int64, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT ChemID FROM ChemInfo WHERE CASN = ?`, cas).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: CAS %s", ErrNotFound, cas)
	}
	if err != nil {
		return 0, fmt.Errorf("chem id for CAS %s: %w", cas, err)
	}
	logging.ApexDebug("CAS %s -> ChemID %d", cas, id)
	return id, nil
}

// ChemIDsFromCAS resolves several CAS numbers concurrently, preserving order.
func (s *Session) ChemIDsFromCAS(ctx context.Context, cas []string) ([]int64, error) {
	ids := make([]int64, len(cas))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, c := range cas {
		i, c := i, c
		g.Go(func() error {
			id, err := s.ChemIDFromCAS(gctx, c)
			if err != nil {
				return err
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ChemInfoByID loads the identity row for a ChemID.
func (s *Session) ChemInfoByID(ctx context.Context, id int64) (ChemInfo, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	var ci ChemInfo
	var name, formula sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT ChemID, CASN, Name, Formula FROM ChemInfo WHERE ChemID = ?`, id).
		Scan(&ci.ChemID, &ci.CASN, &name, &formula)
	if errors.Is(err, sql.ErrNoRows) {
		return ChemInfo{}, fmt.Errorf("%w: ChemID %d", ErrNotFound, id)
	}
	if err != nil {
		return ChemInfo{}, fmt.Errorf("chem info %d: %w", id, err)
	}
	ci.Name = name.String
	ci.Formula = formula.String
	return ci, nil
}

// PropertyID returns Property.TypeID for an abbreviation. Exactly one row must match.
func (s *Session) PropertyID(ctx context.Context, abbr string) (int64, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT TypeID FROM Property WHERE Abbr = ?`, abbr)
	if err != nil {
		return 0, fmt.Errorf("property id for %s: %w", abbr, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("property id for %s: %w", abbr, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	switch len(ids) {
	case 0:
		return 0, fmt.Errorf("%w: property %s", ErrNotFound, abbr)
	case 1:
		return ids[0], nil
	default:
		return 0, fmt.Errorf("%w: property %s has %d rows", ErrAmbiguous, abbr, len(ids))
	}
}

// ConstantValues returns ConstValueData.Value for each chemical, in the order of chemIDs.
// Every chemical must have a value for the property.
func (s *Session) ConstantValues(ctx context.Context, chemIDs []int64, propID int64) ([]float64, error) {
	if len(chemIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT ChemID, Value FROM ConstValueData WHERE PropertyID = ? AND ChemID IN (%s)`,
		placeholders(len(chemIDs)))
	args := append([]interface{}{propID}, int64Args(chemIDs)...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("constant values: %w", err)
	}
	defer rows.Close()

	byChem := make(map[int64]float64, len(chemIDs))
	for rows.Next() {
		var id int64
		var v float64
		if err := rows.Scan(&id, &v); err != nil {
			return nil, fmt.Errorf("constant values: %w", err)
		}
		if _, dup := byChem[id]; dup {
			return nil, fmt.Errorf("%w: ChemID %d has several values for property %d", ErrAmbiguous, id, propID)
		}
		byChem[id] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]float64, len(chemIDs))
	for i, id := range chemIDs {
		v, ok := byChem[id]
		if !ok {
			return nil, fmt.Errorf("%w: ChemID %d has no value for property %d", ErrNotFound, id, propID)
		}
		out[i] = v
	}
	return out, nil
}

// MolecularWeights returns MW for each chemical in order.
func (s *Session) MolecularWeights(ctx context.Context, chemIDs []int64) ([]float64, error) {
	propID, err := s.PropertyID(ctx, PropMW)
	if err != nil {
		return nil, err
	}
	return s.ConstantValues(ctx, chemIDs, propID)
}
