package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// RosterRow is one validated student row from an uploaded roster CSV.
type RosterRow struct {
	Line               int    `json:"line"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	CertificationLevel string `json:"certification_level"`
}

// RosterRowError reports why a row was rejected or skipped.
type RosterRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// RosterImportResult carries the rows to insert plus everything rejected.
type RosterImportResult struct {
	Rows    []RosterRow      `json:"rows"`
	Errors  []RosterRowError `json:"errors"`
	Skipped int              `json:"skipped"`
}

// Column aliases accepted when sniffing the header row.
var rosterColumns = map[string]string{
	"name":                "name",
	"full name":           "name",
	"student name":        "name",
	"student":             "name",
	"first name":          "first_name",
	"firstname":           "first_name",
	"last name":           "last_name",
	"lastname":            "last_name",
	"surname":             "last_name",
	"email":               "email",
	"e-mail":              "email",
	"email address":       "email",
	"phone":               "phone",
	"phone number":        "phone",
	"cell":                "phone",
	"cert":                "cert",
	"certification":       "cert",
	"certification level": "cert",
	"level":               "cert",
}

// ParseRoster reads a roster CSV and validates it row by row. existingEmails
// holds normalized emails already on the roster; matching rows are skipped as
// duplicates, as are repeats within the file itself.
func ParseRoster(r io.Reader, existingEmails map[string]bool) (RosterImportResult, error) {
	var result RosterImportResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return result, errors.New("empty or unreadable CSV file")
	}

	columns := sniffColumns(header)
	if columns["email"] < 0 {
		return result, errors.New("no email column found in header")
	}
	if columns["name"] < 0 && columns["first_name"] < 0 {
		return result, errors.New("no name column found in header")
	}

	seen := make(map[string]bool)
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, RosterRowError{Line: line, Message: "malformed CSV row"})
			continue
		}

		row := RosterRow{
			Line:               line,
			Phone:              field(record, columns["phone"]),
			CertificationLevel: field(record, columns["cert"]),
		}

		if columns["name"] >= 0 {
			row.FirstName, row.LastName = splitName(field(record, columns["name"]))
		} else {
			row.FirstName = field(record, columns["first_name"])
			row.LastName = field(record, columns["last_name"])
		}

		email := strings.ToLower(strings.TrimSpace(field(record, columns["email"])))
		row.Email = email

		if row.FirstName == "" && row.LastName == "" {
			result.Errors = append(result.Errors, RosterRowError{Line: line, Message: "missing name"})
			continue
		}
		if email == "" {
			result.Errors = append(result.Errors, RosterRowError{Line: line, Message: "missing email"})
			continue
		}
		if !validEmail(email) {
			result.Errors = append(result.Errors, RosterRowError{Line: line, Message: fmt.Sprintf("invalid email %q", email)})
			continue
		}
		if seen[email] || existingEmails[email] {
			result.Errors = append(result.Errors, RosterRowError{Line: line, Message: fmt.Sprintf("duplicate email %q", email)})
			result.Skipped++
			continue
		}

		seen[email] = true
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// sniffColumns maps canonical column names to header positions, -1 when absent.
func sniffColumns(header []string) map[string]int {
	columns := map[string]int{
		"name": -1, "first_name": -1, "last_name": -1,
		"email": -1, "phone": -1, "cert": -1,
	}

	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := rosterColumns[key]; ok && columns[canonical] < 0 {
			columns[canonical] = i
		}
	}

	return columns
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// splitName splits "First Middle Last" into first name and last name.
func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.Contains(domain, "@")
}
