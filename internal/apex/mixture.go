package apex

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// VLEDataType classifies experimental mixture data sets.
type VLEDataType string

const (
	VLETPxy VLEDataType = "TPxy"
	VLEPxy  VLEDataType = "Pxy"
	VLETxy  VLEDataType = "Txy"
)

// ParseVLEDataType accepts the type name case-insensitively.
func ParseVLEDataType(s string) (VLEDataType, error) {
	for _, t := range []VLEDataType{VLETPxy, VLEPxy, VLETxy} {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown VLE data type %q (valid: TPxy, Pxy, Txy)", s)
}

// VLESet is one experimental binary VLE data set.
type VLESet struct {
	SetID    int64
	ChemID1  int64
	ChemID2  int64
	DataType VLEDataType
	Ref      string
}

// VLEPoint is one measured point. X1 and Y1 refer to ChemID1 of the set.
type VLEPoint struct {
	T  float64
	P  float64
	X1 float64
	Y1 float64
}

// MixtureVLESets returns data sets of the given type for the pair, in either order.
func (s *Session) MixtureVLESets(ctx context.Context, chemA, chemB int64, dataType VLEDataType) ([]VLESet, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT SetID, ChemID1, ChemID2, DataType, Ref FROM MixtureVLESet
		WHERE DataType = ? AND ((ChemID1 = ? AND ChemID2 = ?) OR (ChemID1 = ? AND ChemID2 = ?))
		ORDER BY SetID`, string(dataType), chemA, chemB, chemB, chemA)
	if err != nil {
		return nil, fmt.Errorf("mixture VLE sets: %w", err)
	}
	defer rows.Close()

	var out []VLESet
	for rows.Next() {
		var v VLESet
		var dt string
		var ref sql.NullString
		if err := rows.Scan(&v.SetID, &v.ChemID1, &v.ChemID2, &dt, &ref); err != nil {
			return nil, fmt.Errorf("mixture VLE sets: %w", err)
		}
		v.DataType = VLEDataType(dt)
		v.Ref = ref.String
		out = append(out, v)
	}
	return out, rows.Err()
}

// MixtureVLEPoints loads the measured points of a set, ordered by temperature then pressure.
func (s *Session) MixtureVLEPoints(ctx context.Context, setID int64) ([]VLEPoint, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT T, P, X1, Y1 FROM MixtureVLEPoint WHERE SetID = ? ORDER BY T, P`, setID)
	if err != nil {
		return nil, fmt.Errorf("mixture VLE points: %w", err)
	}
	defer rows.Close()

	var out []VLEPoint
	for rows.Next() {
		var p VLEPoint
		if err := rows.Scan(&p.T, &p.P, &p.X1, &p.Y1); err != nil {
			return nil, fmt.Errorf("mixture VLE points: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
