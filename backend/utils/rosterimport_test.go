package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRosterBasic(t *testing.T) {
	csv := "Full Name,Email,Phone,Certification Level\n" +
		"Jordan Reyes,jordan.reyes@example.com,555-0101,EMT\n" +
		"Sam Okafor,sam.okafor@example.com,,Paramedic\n"

	result, err := ParseRoster(strings.NewReader(csv), nil)
	assert.NoError(t, err)
	assert.Len(t, result.Rows, 2)
	assert.Empty(t, result.Errors)

	assert.Equal(t, "Jordan", result.Rows[0].FirstName)
	assert.Equal(t, "Reyes", result.Rows[0].LastName)
	assert.Equal(t, "jordan.reyes@example.com", result.Rows[0].Email)
	assert.Equal(t, "EMT", result.Rows[0].CertificationLevel)
}

func TestParseRosterColumnSniffing(t *testing.T) {
	// Different header aliases, different column order
	csv := "E-mail,First Name,Surname,Cert\n" +
		"a.b@example.com,Alex,Barnes,AEMT\n"

	result, err := ParseRoster(strings.NewReader(csv), nil)
	assert.NoError(t, err)
	assert.Len(t, result.Rows, 1)
	assert.Equal(t, "Alex", result.Rows[0].FirstName)
	assert.Equal(t, "Barnes", result.Rows[0].LastName)
	assert.Equal(t, "AEMT", result.Rows[0].CertificationLevel)
}

func TestParseRosterDuplicates(t *testing.T) {
	csv := "Name,Email\n" +
		"Jordan Reyes,jordan@example.com\n" +
		"Jordan R. Reyes,JORDAN@example.com\n" +
		"Casey Lin,casey@example.com\n"

	existing := map[string]bool{"casey@example.com": true}

	result, err := ParseRoster(strings.NewReader(csv), existing)
	assert.NoError(t, err)
	assert.Len(t, result.Rows, 1)
	assert.Equal(t, 2, result.Skipped)
	assert.Len(t, result.Errors, 2)
}

func TestParseRosterRowValidation(t *testing.T) {
	csv := "Name,Email\n" +
		",missing.name@example.com\n" +
		"No Email,\n" +
		"Bad Email,not-an-email\n" +
		"Fine Row,fine@example.com\n"

	result, err := ParseRoster(strings.NewReader(csv), nil)
	assert.NoError(t, err)
	assert.Len(t, result.Rows, 1)
	assert.Len(t, result.Errors, 3)
	assert.Equal(t, 2, result.Errors[0].Line)
	assert.Equal(t, "missing name", result.Errors[0].Message)
}

func TestParseRosterMissingColumns(t *testing.T) {
	_, err := ParseRoster(strings.NewReader("Name,Phone\nJordan Reyes,555-0101\n"), nil)
	assert.Error(t, err)

	_, err = ParseRoster(strings.NewReader("Email\nx@example.com\n"), nil)
	assert.Error(t, err)

	_, err = ParseRoster(strings.NewReader(""), nil)
	assert.Error(t, err)
}

func TestSplitName(t *testing.T) {
	first, last := splitName("Jordan Alexander Reyes")
	assert.Equal(t, "Jordan Alexander", first)
	assert.Equal(t, "Reyes", last)

	first, last = splitName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Equal(t, "", last)
}
