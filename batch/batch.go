/*
Package batch runs the maternity engine over many employee rows.

PURPOSE:
  Spreadsheet imports arrive as rows of mixed quality: missing cities,
  bad salaries, cities without rules. The orchestrator validates each row,
  resolves a missing city through an employee directory, runs the engine,
  and isolates every failure - one broken row never stops the rest.

ORDERING:
  Processing is sequential and results/errors keep original row indices,
  so output order is stable regardless of which rows fail. Each row
  depends only on the shared read-only snapshot and its own input, so a
  caller needing throughput can fan rows out and reassemble by RowIndex.

SEE ALSO:
  - maternity: the per-row engine
  - rules:     the immutable snapshot captured once before the batch
*/
package batch

import (
	"errors"

	"github.com/warp/maternity-engine/calendar"
	"github.com/warp/maternity-engine/maternity"
	"github.com/warp/maternity-engine/rules"
)

// =============================================================================
// EMPLOYEE DIRECTORY - City resolution for rows missing one
// =============================================================================

// Directory resolves an employee's city when the row omits it.
type Directory interface {
	// CityByID returns the city on file for an employee id.
	CityByID(id string) (string, bool)

	// CityByName returns the city on file for an employee name.
	CityByName(name string) (string, bool)
}

// Employee is one directory record.
type Employee struct {
	ID   string
	Name string
	City string
}

// MapDirectory is an in-memory Directory built from a record list.
type MapDirectory struct {
	byID   map[string]string
	byName map[string]string
}

// NewDirectory indexes employee records by id and name.
func NewDirectory(employees []Employee) *MapDirectory {
	d := &MapDirectory{
		byID:   make(map[string]string, len(employees)),
		byName: make(map[string]string, len(employees)),
	}
	for _, e := range employees {
		if e.ID != "" {
			d.byID[e.ID] = e.City
		}
		if e.Name != "" {
			d.byName[e.Name] = e.City
		}
	}
	return d
}

func (d *MapDirectory) CityByID(id string) (string, bool) {
	city, ok := d.byID[id]
	return city, ok && city != ""
}

func (d *MapDirectory) CityByName(name string) (string, bool) {
	city, ok := d.byName[name]
	return city, ok && city != ""
}

// =============================================================================
// BATCH RESULT TYPES
// =============================================================================

// RowResult pairs a successful calculation with its original row index.
type RowResult struct {
	RowIndex    int
	Identity    string
	Calculation *maternity.CalculationResult
}

// RowError records one failed row without aborting the batch.
type RowError struct {
	RowIndex int
	Identity string
	Errors   []string
}

// Result is the full batch outcome, both lists in row order.
type Result struct {
	Results []RowResult
	Errors  []RowError
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator runs batches against one snapshot and calendar, both
// captured at construction and never mutated during a run.
type Orchestrator struct {
	calc      *maternity.Calculator
	snapshot  *rules.Snapshot
	directory Directory
}

// New builds an orchestrator. directory may be nil when rows always carry
// their own city.
func New(snapshot *rules.Snapshot, cal *calendar.Calendar, directory Directory) *Orchestrator {
	return &Orchestrator{
		calc:      maternity.NewCalculator(cal),
		snapshot:  snapshot,
		directory: directory,
	}
}

// Process runs every row, isolating failures. No row aborts the batch.
func (o *Orchestrator) Process(inputs []maternity.EmployeeInput) Result {
	var out Result
	for i, in := range inputs {
		result, rowErr := o.ProcessRow(i, in)
		if rowErr != nil {
			out.Errors = append(out.Errors, *rowErr)
			continue
		}
		out.Results = append(out.Results, *result)
	}
	return out
}

// ProcessRow runs one row under the batch's isolation rules, keeping the
// caller-assigned index for order reconstruction.
func (o *Orchestrator) ProcessRow(index int, in maternity.EmployeeInput) (*RowResult, *RowError) {
	row := in // processed on a private copy

	if row.City == "" {
		if city, ok := o.resolveCity(row); ok {
			row.City = city
		}
	}

	if errs := o.validateRow(row); len(errs) > 0 {
		return nil, &RowError{RowIndex: index, Identity: row.Identity(), Errors: errs}
	}

	result, err := o.calc.Compute(o.snapshot, row)
	if err != nil {
		return nil, &RowError{RowIndex: index, Identity: row.Identity(), Errors: errorMessages(err)}
	}

	return &RowResult{RowIndex: index, Identity: row.Identity(), Calculation: result}, nil
}

func (o *Orchestrator) resolveCity(row maternity.EmployeeInput) (string, bool) {
	if o.directory == nil {
		return "", false
	}
	if row.EmployeeID != "" {
		if city, ok := o.directory.CityByID(row.EmployeeID); ok {
			return city, true
		}
	}
	if row.EmployeeName != "" {
		if city, ok := o.directory.CityByName(row.EmployeeName); ok {
			return city, true
		}
	}
	return "", false
}

// validateRow checks row-level requirements the engine would also catch,
// plus the batch-specific rule that the city must carry an allowance rule.
func (o *Orchestrator) validateRow(row maternity.EmployeeInput) []string {
	var msgs []string
	if err := row.Validate(); err != nil {
		msgs = append(msgs, errorMessages(err)...)
	}
	if row.City != "" && !o.snapshot.HasCity(row.City) {
		msgs = append(msgs, (&rules.RuleNotFoundError{City: row.City}).Error())
	}
	return msgs
}

func errorMessages(err error) []string {
	var verrs maternity.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.Messages()
	}
	return []string{err.Error()}
}
