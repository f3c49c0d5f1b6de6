// Package export renders seating plans as CSV and Excel workbooks.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/arnavshah/seat-planner-go/pkg/models"
)

// Sheet names in the exported workbook
const (
	AssignmentsSheet = "Assignments"
	SummarySheet     = "Summary"
)

var header = []string{"employee_id", "employee_name", "seat_id", "seat_label", "zone", "floor_id", "reason"}

// Row is one flattened assignment
type Row struct {
	EmployeeID   string
	EmployeeName string
	SeatID       string
	SeatLabel    string
	Zone         string
	FloorID      string
	Reason       string
}

func (r Row) record() []string {
	return []string{r.EmployeeID, r.EmployeeName, r.SeatID, r.SeatLabel, r.Zone, r.FloorID, r.Reason}
}

// Rows joins a plan's assignments with the directory. Employees or seats
// missing from snap keep only their IDs.
func Rows(plan models.Plan, snap models.Snapshot) []Row {
	names := make(map[string]string, len(snap.Employees))
	for _, e := range snap.Employees {
		names[e.ID] = e.Name
	}
	seats := make(map[string]models.Seat, len(snap.Seats))
	for _, s := range snap.Seats {
		seats[s.ID] = s
	}
	zones := make(map[string]string, len(snap.Zones))
	for _, z := range snap.Zones {
		zones[z.ID] = z.Name
	}

	rows := make([]Row, 0, len(plan.Assignments))
	for _, a := range plan.Assignments {
		r := Row{EmployeeID: a.EmployeeID, EmployeeName: names[a.EmployeeID], SeatID: a.SeatID, Reason: a.Reason}
		if s, ok := seats[a.SeatID]; ok {
			r.SeatLabel = s.Label
			r.FloorID = s.FloorID
			r.Zone = zones[s.ZoneID]
			if r.Zone == "" {
				r.Zone = s.ZoneID
			}
		}
		rows = append(rows, r)
	}
	return rows
}

// WriteCSV writes the assignment table with a header row
func WriteCSV(w io.Writer, plan models.Plan, snap models.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range Rows(plan, snap) {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Workbook builds an xlsx file with an assignment sheet and a summary sheet.
// The caller must Close the result.
func Workbook(plan models.Plan, snap models.Snapshot) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", AssignmentsSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeAssignments(f, Rows(plan, snap)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeSummary(f, plan); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// WriteXLSX writes the workbook for plan to w
func WriteXLSX(w io.Writer, plan models.Plan, snap models.Snapshot) error {
	f, err := Workbook(plan, snap)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return f.Write(w)
}

func writeAssignments(f *excelize.File, rows []Row) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(AssignmentsSheet, cell, h); err != nil {
			return err
		}
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := r.record()
		row := make([]any, len(values))
		for j, v := range values {
			row[j] = v
		}
		if err := f.SetSheetRow(AssignmentsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f.SetPanes(AssignmentsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummary(f *excelize.File, plan models.Plan) error {
	effective := ""
	if plan.EffectiveFrom != nil {
		effective = plan.EffectiveFrom.Format("2006-01-02")
	}
	pairs := [][2]any{
		{"Name", plan.Name},
		{"Description", plan.Description},
		{"Strategy", plan.Strategy},
		{"Optimization score", plan.OptimizationScore},
		{"Assigned", len(plan.Assignments)},
		{"Unassigned employees", len(plan.UnassignedEmployees)},
		{"Unassigned seats", len(plan.UnassignedSeats)},
		{"Team proximity weight", plan.Parameters.TeamProximityWeight},
		{"Tech stack weight", plan.Parameters.TechStackWeight},
		{"Cross-team weight", plan.Parameters.CrossTeamWeight},
		{"Deadline weight", plan.Parameters.DeadlineWeight},
		{"Active", strconv.FormatBool(plan.IsActive)},
		{"Effective from", effective},
		{"Created at", plan.CreatedAt.Format("2006-01-02 15:04")},
	}
	for i, p := range pairs {
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+1), &[]any{p[0], p[1]}); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "A", 24)
}
