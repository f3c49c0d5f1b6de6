package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/seat-planner-go/pkg/models"
)

// ReplaceDirectory swaps the stored employee, project, seat and zone directory
func (h *Handler) ReplaceDirectory(c *gin.Context) {
	var snap models.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.ReplaceDirectory(c.Request.Context(), snap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store directory: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, directoryStats(snap))
}

// ImportDirectoryCSV replaces the directory from uploaded CSV files. List
// columns are "|" separated.
func (h *Handler) ImportDirectoryCSV(c *gin.Context) {
	employeesFile, _ := c.FormFile("employees_file")
	seatsFile, _ := c.FormFile("seats_file")
	zonesFile, _ := c.FormFile("zones_file")
	projectsFile, _ := c.FormFile("projects_file")

	if employeesFile == nil || seatsFile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employees_file and seats_file are required"})
		return
	}

	var snap models.Snapshot

	rows, err := readCSV(employeesFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employees_file: " + err.Error()})
		return
	}
	for _, r := range rows {
		snap.Employees = append(snap.Employees, models.Employee{
			ID:                r["id"],
			Name:              r["name"],
			Department:        r["department"],
			TechSkills:        splitList(r["tech_skills"]),
			CurrentProjectIDs: splitList(r["current_project_ids"]),
		})
	}

	if rows, err = readCSV(seatsFile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seats_file: " + err.Error()})
		return
	}
	for _, r := range rows {
		snap.Seats = append(snap.Seats, models.Seat{
			ID:      r["id"],
			Label:   r["label"],
			ZoneID:  r["zone_id"],
			FloorID: r["floor_id"],
			Status:  strings.ToLower(r["status"]),
		})
	}

	if zonesFile != nil {
		if rows, err = readCSV(zonesFile); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "zones_file: " + err.Error()})
			return
		}
		for _, r := range rows {
			snap.Zones = append(snap.Zones, models.Zone{
				ID:      r["id"],
				Name:    r["name"],
				FloorID: r["floor_id"],
				Type:    strings.ToLower(r["type"]),
			})
		}
	}

	if projectsFile != nil {
		if rows, err = readCSV(projectsFile); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "projects_file: " + err.Error()})
			return
		}
		for _, r := range rows {
			priority, _ := strconv.Atoi(r["priority"])
			p := models.Project{
				ID:            r["id"],
				Name:          r["name"],
				Priority:      priority,
				TeamMemberIDs: splitList(r["team_member_ids"]),
			}
			if d, ok := parseDate(r["deadline"]); ok {
				p.Deadline = &d
			}
			snap.Projects = append(snap.Projects, p)
		}
	}

	if err := checkDirectory(snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.ReplaceDirectory(c.Request.Context(), snap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store directory: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, directoryStats(snap))
}

// UpdateSeatStatus changes one seat's availability
func (h *Handler) UpdateSeatStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required,oneof=available occupied reserved maintenance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Directory.UpdateSeatStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
}

func directoryStats(snap models.Snapshot) gin.H {
	return gin.H{
		"employees": len(snap.Employees),
		"projects":  len(snap.Projects),
		"seats":     len(snap.Seats),
		"zones":     len(snap.Zones),
	}
}

// checkDirectory applies the checks the JSON endpoint gets from binding tags
func checkDirectory(snap models.Snapshot) error {
	for i, e := range snap.Employees {
		if e.ID == "" {
			return fmt.Errorf("employee row %d has no id", i+2)
		}
	}
	for i, s := range snap.Seats {
		if s.ID == "" {
			return fmt.Errorf("seat row %d has no id", i+2)
		}
		switch s.Status {
		case "", models.SeatAvailable, models.SeatOccupied, models.SeatReserved, models.SeatMaintenance:
		default:
			return fmt.Errorf("seat %s has unknown status %q", s.ID, s.Status)
		}
	}
	for i, z := range snap.Zones {
		if z.ID == "" {
			return fmt.Errorf("zone row %d has no id", i+2)
		}
	}
	for i, p := range snap.Projects {
		if p.ID == "" {
			return fmt.Errorf("project row %d has no id", i+2)
		}
	}
	return nil
}

// readCSV reads a headed CSV upload into one map per row
func readCSV(fh *multipart.FileHeader) ([]map[string]string, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, errors.New("failed to read header")
	}
	cols := make(map[int]string, len(header))
	for i, name := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(name))
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(record))
		for i, v := range record {
			if name, ok := cols[i]; ok {
				row[name] = strings.TrimSpace(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
