package roster

import (
	"time"

	"github.com/agentops/licensetrack/pkg/db/models"
	"github.com/agentops/licensetrack/pkg/fieldmap"
)

// DateLayouts are accepted for roster date columns.
var DateLayouts = []string{"1/2/2006", "2006-01-02"}

type salesman = models.Salesman

func text(field func(*salesman) *string) fieldmap.Setter[salesman] {
	return fieldmap.Text(field)
}

func date(name string, field func(*salesman) **time.Time) fieldmap.Setter[salesman] {
	return fieldmap.Date(name, field, DateLayouts...)
}

var salesmanColumns = fieldmap.Columns[salesman]{
	"npn":                 fieldmap.OptionalText(func(s *salesman) **string { return &s.NPN }),
	"associate_oid":       fieldmap.OptionalText(func(s *salesman) **string { return &s.AssociateOID }),
	"first_name":          text(func(s *salesman) *string { return &s.FirstName }),
	"last_name":           text(func(s *salesman) *string { return &s.LastName }),
	"position_id":         text(func(s *salesman) *string { return &s.PositionID }),
	"associate_id":        text(func(s *salesman) *string { return &s.AssociateID }),
	"adp_position_id":     text(func(s *salesman) *string { return &s.ADPPositionID }),
	"job_title":           text(func(s *salesman) *string { return &s.JobTitle }),
	"department_name":     text(func(s *salesman) *string { return &s.DepartmentName }),
	"department_id":       text(func(s *salesman) *string { return &s.DepartmentID }),
	"trainer":             text(func(s *salesman) *string { return &s.Trainer }),
	"uptraining_class":    text(func(s *salesman) *string { return &s.UptrainingClass }),
	"agent_supervisor":    text(func(s *salesman) *string { return &s.AgentSupervisor }),
	"pod":                 text(func(s *salesman) *string { return &s.Pod }),
	"agent_site":          text(func(s *salesman) *string { return &s.AgentSite }),
	"client":              text(func(s *salesman) *string { return &s.Client }),
	"username":            text(func(s *salesman) *string { return &s.Username }),
	"cxp_employee_id":     text(func(s *salesman) *string { return &s.CXPEmployeeID }),
	"needed_states":       text(func(s *salesman) *string { return &s.NeededStates }),
	"agent_indicator":     fieldmap.Int("agent_indicator", func(s *salesman) *int { return &s.AgentIndicator }),
	"compliance_status":   fieldmap.Int("compliance_status", func(s *salesman) *int { return &s.ComplianceStatus }),
	"deleted":             fieldmap.Bool("deleted", func(s *salesman) *bool { return &s.Deleted }),
	"hire_date":           date("hire_date", func(s *salesman) **time.Time { return &s.HireDate }),
	"position_start_date": date("position_start_date", func(s *salesman) **time.Time { return &s.PositionStart }),
	"class_start_date":    date("class_start_date", func(s *salesman) **time.Time { return &s.ClassStartDate }),
	"class_end_date":      date("class_end_date", func(s *salesman) **time.Time { return &s.ClassEndDate }),
}

// KnownColumn reports whether name maps onto a salesman field.
func KnownColumn(name string) bool {
	_, ok := salesmanColumns[fieldmap.Normalize(name)]
	return ok
}
