package salesmen

import (
	"time"

	"github.com/agentops/licensetrack/pkg/db/models"
	"github.com/google/uuid"
)

// Input carries the editable salesman fields. Nil fields are left untouched on
// update. Dates accept YYYY-MM-DD or MM/DD/YYYY.
type Input struct {
	FirstName         *string `json:"first_name" validate:"omitempty,max=255"`
	LastName          *string `json:"last_name" validate:"omitempty,max=255"`
	NPN               *string `json:"npn" validate:"omitempty,max=64"`
	PositionID        *string `json:"position_id" validate:"omitempty,max=255"`
	AssociateOID      *string `json:"associate_oid" validate:"omitempty,max=255"`
	AssociateID       *string `json:"associate_id" validate:"omitempty,max=255"`
	ADPPositionID     *string `json:"adp_position_id" validate:"omitempty,max=255"`
	JobTitle          *string `json:"job_title" validate:"omitempty,max=255"`
	DepartmentName    *string `json:"department_name" validate:"omitempty,max=255"`
	DepartmentID      *string `json:"department_id" validate:"omitempty,max=255"`
	AgentIndicator    *int    `json:"agent_indicator" validate:"omitempty,min=0"`
	HireDate          *string `json:"hire_date"`
	PositionStartDate *string `json:"position_start_date"`
	ClassStartDate    *string `json:"class_start_date"`
	ClassEndDate      *string `json:"class_end_date"`
	Trainer           *string `json:"trainer" validate:"omitempty,max=255"`
	UptrainingClass   *string `json:"uptraining_class" validate:"omitempty,max=255"`
	ComplianceStatus  *int    `json:"compliance_status" validate:"omitempty,min=0"`
	AgentSupervisor   *string `json:"agent_supervisor" validate:"omitempty,max=255"`
	Pod               *string `json:"pod" validate:"omitempty,max=255"`
	AgentSite         *string `json:"agent_site" validate:"omitempty,max=255"`
	Client            *string `json:"client" validate:"omitempty,max=255"`
	Username          *string `json:"username" validate:"omitempty,max=255"`
	CXPEmployeeID     *string `json:"cxp_employee_id" validate:"omitempty,max=255"`
}

type Salesman struct {
	ID                uuid.UUID  `json:"id"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	NPN               *string    `json:"npn"`
	PositionID        string     `json:"position_id"`
	AssociateOID      *string    `json:"associate_oid"`
	AssociateID       string     `json:"associate_id"`
	ADPPositionID     string     `json:"adp_position_id"`
	JobTitle          string     `json:"job_title"`
	DepartmentName    string     `json:"department_name"`
	DepartmentID      string     `json:"department_id"`
	AgentIndicator    int        `json:"agent_indicator"`
	HireDate          *time.Time `json:"hire_date"`
	PositionStartDate *time.Time `json:"position_start_date"`
	ClassStartDate    *time.Time `json:"class_start_date"`
	ClassEndDate      *time.Time `json:"class_end_date"`
	Trainer           string     `json:"trainer"`
	UptrainingClass   string     `json:"uptraining_class"`
	ComplianceStatus  int        `json:"compliance_status"`
	AgentSupervisor   string     `json:"agent_supervisor"`
	Pod               string     `json:"pod"`
	AgentSite         string     `json:"agent_site"`
	Client            string     `json:"client"`
	Username          string     `json:"username"`
	CXPEmployeeID     string     `json:"cxp_employee_id"`
	NeededStates      string     `json:"needed_states"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type State struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Licenses     []License     `json:"licenses"`
	Appointments []Appointment `json:"appointments"`
}

type License struct {
	ID                   uuid.UUID       `json:"id"`
	LicenseNum           string          `json:"license_num"`
	DateUpdated          *time.Time      `json:"date_updated"`
	DateIssueLicenseOrig *time.Time      `json:"date_issue_license_orig"`
	DateExpireLicense    *time.Time      `json:"date_expire_license"`
	LicenseClass         string          `json:"license_class"`
	LicenseClassCode     string          `json:"license_class_code"`
	ResidencyStatus      string          `json:"residency_status"`
	Active               string          `json:"active"`
	AdhsIndicator        string          `json:"adhs_indicator"`
	Details              []LicenseDetail `json:"details"`
}

type LicenseDetail struct {
	ID                 uuid.UUID  `json:"id"`
	LOA                string     `json:"loa"`
	LOACode            string     `json:"loa_code"`
	AuthorityIssueDate *time.Time `json:"authority_issue_date"`
	Status             string     `json:"status"`
	StatusReason       string     `json:"status_reason"`
	StatusReasonDate   *time.Time `json:"status_reason_date"`
	CECompliance       string     `json:"ce_compliance"`
	CECreditsNeeded    string     `json:"ce_credits_needed"`
}

type Appointment struct {
	ID                 uuid.UUID  `json:"id"`
	CompanyName        string     `json:"company_name"`
	FEIN               string     `json:"fein"`
	COCode             string     `json:"cocode"`
	LineOfAuthority    string     `json:"line_of_authority"`
	LOACode            string     `json:"loa_code"`
	Status             string     `json:"status"`
	TerminationReason  string     `json:"termination_reason"`
	StatusReasonDate   *time.Time `json:"status_reason_date"`
	AppontRenewalDate  *time.Time `json:"appont_renewal_date"`
	AgencyAffiliations string     `json:"agency_affiliations"`
	CountyCode         string     `json:"county_code"`
}

func toSalesman(m models.Salesman) Salesman {
	return Salesman{
		ID:                m.ID,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		NPN:               m.NPN,
		PositionID:        m.PositionID,
		AssociateOID:      m.AssociateOID,
		AssociateID:       m.AssociateID,
		ADPPositionID:     m.ADPPositionID,
		JobTitle:          m.JobTitle,
		DepartmentName:    m.DepartmentName,
		DepartmentID:      m.DepartmentID,
		AgentIndicator:    m.AgentIndicator,
		HireDate:          m.HireDate,
		PositionStartDate: m.PositionStart,
		ClassStartDate:    m.ClassStartDate,
		ClassEndDate:      m.ClassEndDate,
		Trainer:           m.Trainer,
		UptrainingClass:   m.UptrainingClass,
		ComplianceStatus:  m.ComplianceStatus,
		AgentSupervisor:   m.AgentSupervisor,
		Pod:               m.Pod,
		AgentSite:         m.AgentSite,
		Client:            m.Client,
		Username:          m.Username,
		CXPEmployeeID:     m.CXPEmployeeID,
		NeededStates:      m.NeededStates,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toState(m models.State) State {
	out := State{
		ID:           m.ID,
		Name:         m.Name,
		Licenses:     make([]License, 0, len(m.Licenses)),
		Appointments: make([]Appointment, 0, len(m.Appointments)),
	}
	for _, l := range m.Licenses {
		license := License{
			ID:                   l.ID,
			LicenseNum:           l.LicenseNum,
			DateUpdated:          l.DateUpdated,
			DateIssueLicenseOrig: l.DateIssueLicenseOrig,
			DateExpireLicense:    l.DateExpireLicense,
			LicenseClass:         l.LicenseClass,
			LicenseClassCode:     l.LicenseClassCode,
			ResidencyStatus:      l.ResidencyStatus,
			Active:               l.Active,
			AdhsIndicator:        l.AdhsIndicator,
			Details:              make([]LicenseDetail, 0, len(l.Details)),
		}
		for _, d := range l.Details {
			license.Details = append(license.Details, LicenseDetail{
				ID:                 d.ID,
				LOA:                d.LOA,
				LOACode:            d.LOACode,
				AuthorityIssueDate: d.AuthorityIssueDate,
				Status:             d.Status,
				StatusReason:       d.StatusReason,
				StatusReasonDate:   d.StatusReasonDate,
				CECompliance:       d.CECompliance,
				CECreditsNeeded:    d.CECreditsNeeded,
			})
		}
		out.Licenses = append(out.Licenses, license)
	}
	for _, a := range m.Appointments {
		out.Appointments = append(out.Appointments, Appointment{
			ID:                 a.ID,
			CompanyName:        a.CompanyName,
			FEIN:               a.FEIN,
			COCode:             a.COCode,
			LineOfAuthority:    a.LineOfAuthority,
			LOACode:            a.LOACode,
			Status:             a.Status,
			TerminationReason:  a.TerminationReason,
			StatusReasonDate:   a.StatusReasonDate,
			AppontRenewalDate:  a.AppontRenewalDate,
			AgencyAffiliations: a.AgencyAffiliations,
			CountyCode:         a.CountyCode,
		})
	}
	return out
}
