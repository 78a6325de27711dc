// Package apextest builds small Apex-shaped SQLite databases for tests.
package apextest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Chemical ids used by the fixture.
const (
	AceticAcid    int64 = 1252
	Water         int64 = 1921
	PropionicAcid int64 = 1603
	Methanol      int64 = 1100
)

// Databank ids used by the fixture.
const (
	BankVLEIG  int64 = 10
	BankVLEHOC int64 = 11
	BankVLERK  int64 = 12
	BankLLE    int64 = 20
)

var schema = []string{
	`CREATE TABLE ChemInfo (ChemID INTEGER PRIMARY KEY, CASN TEXT, Name TEXT, Formula TEXT)`,
	`CREATE TABLE Property (TypeID INTEGER PRIMARY KEY, Abbr TEXT, Name TEXT)`,
	`CREATE TABLE ConstValueData (ChemID INTEGER, PropertyID INTEGER, Value REAL)`,
	`CREATE TABLE Databank (DatabankID INTEGER PRIMARY KEY, Name TEXT, Description TEXT)`,
	`CREATE TABLE BinCoeffSet (SetID INTEGER PRIMARY KEY, DatabankID INTEGER, ChemID1 INTEGER, ChemID2 INTEGER, Model TEXT)`,
	`CREATE TABLE BinCoeffData (SetID INTEGER, Param TEXT, Idx INTEGER, Value REAL)`,
	`CREATE TABLE MixtureVLESet (SetID INTEGER PRIMARY KEY, ChemID1 INTEGER, ChemID2 INTEGER, DataType TEXT, Ref TEXT)`,
	`CREATE TABLE MixtureVLEPoint (SetID INTEGER, T REAL, P REAL, X1 REAL, Y1 REAL)`,
}

var rows = []string{
	`INSERT INTO ChemInfo VALUES
		(1252, '64-19-7', 'ACETIC ACID', 'C2H4O2'),
		(1921, '7732-18-5', 'WATER', 'H2O'),
		(1603, '79-09-4', 'PROPIONIC ACID', 'C3H6O2'),
		(1100, '67-56-1', 'METHANOL', 'CH4O')`,
	`INSERT INTO Property VALUES (1, 'MW', 'Molecular weight'), (2, 'TB', 'Normal boiling point'),
		(3, 'TC', 'Critical temperature'), (4, 'DUP', 'first'), (5, 'DUP', 'second')`,
	`INSERT INTO ConstValueData VALUES
		(1921, 1, 18.01528), (1252, 1, 60.05196), (1603, 1, 74.07854),
		(1252, 2, 391.05), (1921, 2, 373.15)`,
	`INSERT INTO Databank VALUES
		(10, 'ASPEN VLE-IG', 'WILSON binary parameters regressed with ideal gas'),
		(11, 'ASPEN VLE-HOC', 'WILSON binary parameters regressed with Hayden-OConnell'),
		(12, 'ASPEN VLE-RK', 'NRTL binary parameters regressed with Redlich-Kwong'),
		(20, 'ASPEN LLE', 'WILSON liquid-liquid parameters')`,
	`INSERT INTO BinCoeffSet VALUES
		(100, 11, 1252, 1921, 'WILSON'),
		(101, 10, 1252, 1921, 'WILSON'),
		(102, 12, 1252, 1921, 'NRTL'),
		(103, 11, 1252, 1603, 'WILSON'),
		(104, 20, 1252, 1921, 'WILSON')`,
	`INSERT INTO BinCoeffData VALUES
		(100, 'AIJ', 0, -1.9763), (100, 'AIJ', 1, 0.8876),
		(100, 'BIJ', 0, 609.8886), (100, 'BIJ', 1, -219.7323),
		(101, 'AIJ', 0, -2.0500), (101, 'BIJ', 0, 650.1)`,
	`INSERT INTO MixtureVLESet VALUES
		(500, 1252, 1921, 'TPxy', 'Gmehling J., Onken U., DECHEMA Chemistry Data Series 1977'),
		(501, 1921, 1252, 'TPxy', 'Othmer D.F., Ind. Eng. Chem. 1943'),
		(502, 1252, 1921, 'Txy', 'Garwin L., Ind. Eng. Chem. 1949')`,
	`INSERT INTO MixtureVLEPoint VALUES
		(500, 373.9, 101.325, 0.1, 0.07),
		(500, 378.2, 101.325, 0.5, 0.36),
		(500, 385.6, 101.325, 0.8, 0.68)`,
}

// NewDB creates a populated fixture database in a temp dir and returns its path.
func NewDB(tb testing.TB) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "apex.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		tb.Fatalf("open fixture: %v", err)
	}
	defer db.Close()

	for _, stmt := range append(append([]string{}, schema...), rows...) {
		if _, err := db.Exec(stmt); err != nil {
			tb.Fatalf("fixture statement failed: %v\n%s", err, stmt)
		}
	}
	return path
}

// Exec runs extra statements against a fixture database.
func Exec(tb testing.TB, path string, stmts ...string) {
	tb.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		tb.Fatalf("open fixture: %v", err)
	}
	defer db.Close()
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			tb.Fatalf("fixture statement failed: %v\n%s", err, stmt)
		}
	}
}
