package importer

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
	"github.com/straye-as/client-admin/internal/domain"
)

// Canonical column names, in template order
const (
	ColFullName    = "fullName"
	ColDisplayName = "displayName"
	ColEmail       = "email"
	ColLocation    = "location"
	ColDetails     = "details"
	ColActive      = "active"
)

// Columns is the canonical header row
var Columns = []string{ColFullName, ColDisplayName, ColEmail, ColLocation, ColDetails, ColActive}

// headerAliases maps each canonical column to its accepted alternative
// header. Matching is case-sensitive.
var headerAliases = map[string]string{
	ColFullName:    "Full Name",
	ColDisplayName: "Display Name",
	ColEmail:       "Email",
	ColLocation:    "Location",
	ColDetails:     "Details",
	ColActive:      "Active",
}

// RawRow is one data row keyed by its header cell
type RawRow map[string]any

// value returns the cell under the canonical header, or under its alias when
// the sheet has no canonical column
func (r RawRow) value(column string) any {
	if v, ok := r[column]; ok {
		return v
	}
	return r[headerAliases[column]]
}

func (r RawRow) text(column string) string {
	v := r.value(column)
	if v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// RowError describes why one spreadsheet row was rejected
type RowError struct {
	// Row is the 1-indexed sheet row; the header is row 1
	Row    int      `json:"row"`
	Issues []string `json:"issues"`
}

// CoerceBool interprets the heterogeneous values found in an "active" cell.
// It returns nil for empty or unrecognized input, never an error.
func CoerceBool(v any) *bool {
	if b, ok := v.(bool); ok {
		return &b
	}
	if v == nil {
		return nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil
	}
	yes, no := true, false
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return &yes
	case "false", "0", "no", "n":
		return &no
	default:
		return nil
	}
}

// Normalize trims every field and turns empty optional fields into nil
func Normalize(raw RawRow) domain.CreateClientRequest {
	return domain.CreateClientRequest{
		FullName:    raw.text(ColFullName),
		DisplayName: domain.OptionalString(raw.text(ColDisplayName)),
		Email:       raw.text(ColEmail),
		Location:    domain.OptionalString(raw.text(ColLocation)),
		Details:     domain.OptionalString(raw.text(ColDetails)),
		Active:      CoerceBool(raw.value(ColActive)),
	}
}

// Issue texts, in the order they are reported
const (
	IssueFullNameRequired = "fullName is required"
	IssueEmailRequired    = "email is required"
	IssueEmailInvalid     = "email is invalid"
	IssueFullNameTooLong  = "fullName > 255"
	IssueDisplayTooLong   = "displayName > 255"
	IssueEmailTooLong     = "email > 255"
	IssueLocationTooLong  = "location > 255"
	IssueDetailsTooLong   = "details > 1000"
)

type rule struct {
	issue string
	value func(domain.CreateClientRequest) string
	tag   string
	// onlyIfSet skips the rule for empty values
	onlyIfSet bool
}

var rules = []rule{
	{IssueFullNameRequired, func(r domain.CreateClientRequest) string { return r.FullName }, "required", false},
	{IssueEmailRequired, func(r domain.CreateClientRequest) string { return r.Email }, "required", false},
	{IssueEmailInvalid, func(r domain.CreateClientRequest) string { return r.Email }, "clientemail", true},
	{IssueFullNameTooLong, func(r domain.CreateClientRequest) string { return r.FullName }, "maxlen=255", true},
	{IssueDisplayTooLong, func(r domain.CreateClientRequest) string { return domain.StringValue(r.DisplayName) }, "maxlen=255", true},
	{IssueEmailTooLong, func(r domain.CreateClientRequest) string { return r.Email }, "maxlen=255", true},
	{IssueLocationTooLong, func(r domain.CreateClientRequest) string { return domain.StringValue(r.Location) }, "maxlen=255", true},
	{IssueDetailsTooLong, func(r domain.CreateClientRequest) string { return domain.StringValue(r.Details) }, "maxlen=1000", true},
}

// Validator checks normalized rows
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a row validator
func NewValidator() *Validator {
	return &Validator{validate: domain.NewValidator()}
}

// Issues returns every problem with req in a fixed order; empty means valid
func (v *Validator) Issues(req domain.CreateClientRequest) []string {
	var issues []string
	for _, r := range rules {
		val := r.value(req)
		if r.onlyIfSet && val == "" {
			continue
		}
		if err := v.validate.Var(val, r.tag); err != nil {
			issues = append(issues, r.issue)
		}
	}
	return issues
}

// Result is the partition of a sheet into submittable records and rejected rows
type Result struct {
	Valid  []domain.CreateClientRequest `json:"valid"`
	Errors []RowError                   `json:"errors"`
}

// Total returns the number of data rows that were classified
func (r Result) Total() int {
	return len(r.Valid) + len(r.Errors)
}

// Partition normalizes and validates rows. Every row lands in exactly one
// of the two sets; the first data row is row 2.
func (v *Validator) Partition(rows []RawRow) Result {
	res := Result{
		Valid:  []domain.CreateClientRequest{},
		Errors: []RowError{},
	}
	for i, raw := range rows {
		req := Normalize(raw)
		if issues := v.Issues(req); len(issues) > 0 {
			res.Errors = append(res.Errors, RowError{Row: i + 2, Issues: issues})
			continue
		}
		res.Valid = append(res.Valid, req)
	}
	return res
}
