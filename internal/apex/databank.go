package apex

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"apexvle/internal/logging"
)

// Databank is a named collection of regressed parameter sets.
type Databank struct {
	ID          int64
	Name        string
	Description string
}

// DatabankFilter narrows Databanks. With no Names every databank is returned;
// DescriptionContains only applies together with Names.
type DatabankFilter struct {
	Names               []string
	DescriptionContains string
}

// Databanks lists databanks matching the filter, ordered by id.
func (s *Session) Databanks(ctx context.Context, f DatabankFilter) ([]Databank, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	query := `SELECT DatabankID, Name, Description FROM Databank`
	var args []interface{}
	if len(f.Names) > 0 {
		query += fmt.Sprintf(` WHERE Name IN (%s)`, placeholders(len(f.Names)))
		for _, n := range f.Names {
			args = append(args, n)
		}
		if f.DescriptionContains != "" {
			query += ` AND Description LIKE ?`
			args = append(args, "%"+f.DescriptionContains+"%")
		}
	}
	query += ` ORDER BY DatabankID`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("databanks: %w", err)
	}
	defer rows.Close()

	var out []Databank
	for rows.Next() {
		var b Databank
		var desc sql.NullString
		if err := rows.Scan(&b.ID, &b.Name, &desc); err != nil {
			return nil, fmt.Errorf("databanks: %w", err)
		}
		b.Description = desc.String
		out = append(out, b)
	}
	logging.ApexDebug("Databanks(%v, %q) -> %d rows", f.Names, f.DescriptionContains, len(out))
	return out, rows.Err()
}

// CoeffSetInfo is the header of one binary interaction coefficient set.
type CoeffSetInfo struct {
	SetID      int64
	DatabankID int64
	ChemID1    int64
	ChemID2    int64
	Model      string
}

// CoeffParam is one element of a coefficient set, e.g. WILSON/1 index 0.
type CoeffParam struct {
	Name  string
	Index int
	Value float64
}

// CoeffSet is a header with its parameter values.
type CoeffSet struct {
	CoeffSetInfo
	Params []CoeffParam
}

// CoeffSetsInfo lists coefficient sets from the given databanks whose two
// chemicals both belong to chemIDs.
func (s *Session) CoeffSetsInfo(ctx context.Context, chemIDs []int64, banks []Databank) ([]CoeffSetInfo, error) {
	if len(chemIDs) < 2 || len(banks) == 0 {
		return nil, nil
	}
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	bankIDs := make([]int64, len(banks))
	for i, b := range banks {
		bankIDs[i] = b.ID
	}
	chemPH := placeholders(len(chemIDs))
	query := fmt.Sprintf(`SELECT SetID, DatabankID, ChemID1, ChemID2, Model FROM BinCoeffSet
		WHERE DatabankID IN (%s) AND ChemID1 IN (%s) AND ChemID2 IN (%s)
		ORDER BY SetID`, placeholders(len(bankIDs)), chemPH, chemPH)

	args := int64Args(bankIDs)
	args = append(args, int64Args(chemIDs)...)
	args = append(args, int64Args(chemIDs)...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("coefficient sets: %w", err)
	}
	defer rows.Close()

	var out []CoeffSetInfo
	for rows.Next() {
		var c CoeffSetInfo
		var model sql.NullString
		if err := rows.Scan(&c.SetID, &c.DatabankID, &c.ChemID1, &c.ChemID2, &model); err != nil {
			return nil, fmt.Errorf("coefficient sets: %w", err)
		}
		if c.ChemID1 == c.ChemID2 {
			continue
		}
		c.Model = model.String
		out = append(out, c)
	}
	return out, rows.Err()
}

// CoeffSets loads the parameter values for each header.
func (s *Session) CoeffSets(ctx context.Context, infos []CoeffSetInfo) ([]CoeffSet, error) {
	if len(infos) == 0 {
		return nil, nil
	}
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	ids := make([]int64, len(infos))
	for i, info := range infos {
		ids[i] = info.SetID
	}
	query := fmt.Sprintf(`SELECT SetID, Param, Idx, Value FROM BinCoeffData
		WHERE SetID IN (%s) ORDER BY SetID, Param, Idx`, placeholders(len(ids)))

	rows, err := s.db.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("coefficient data: %w", err)
	}
	defer rows.Close()

	params := make(map[int64][]CoeffParam, len(infos))
	for rows.Next() {
		var setID int64
		var p CoeffParam
		if err := rows.Scan(&setID, &p.Name, &p.Index, &p.Value); err != nil {
			return nil, fmt.Errorf("coefficient data: %w", err)
		}
		params[setID] = append(params[setID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]CoeffSet, len(infos))
	for i, info := range infos {
		out[i] = CoeffSet{CoeffSetInfo: info, Params: params[info.SetID]}
	}
	return out, nil
}

// Describe renders a short label such as "ASPEN VLE-HOC WILSON 12/34".
func (c CoeffSetInfo) Describe(banks []Databank) string {
	name := fmt.Sprintf("bank %d", c.DatabankID)
	for _, b := range banks {
		if b.ID == c.DatabankID {
			name = b.Name
			break
		}
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s %d/%d", name, c.Model, c.ChemID1, c.ChemID2))
}
