package licensing

import (
	"github.com/agentops/licensetrack/pkg/db/models"
	"github.com/agentops/licensetrack/pkg/pdb"
	"github.com/google/uuid"
)

func toLicense(state *models.State, salesmanID uuid.UUID, r pdb.LicenseRecord) *models.License {
	return &models.License{
		StateID:              state.ID,
		SalesmanID:           salesmanID,
		LicenseNum:           r.LicenseNum,
		DateUpdated:          r.DateUpdated,
		DateIssueLicenseOrig: r.DateIssueLicenseOrig,
		DateExpireLicense:    r.DateExpireLicense,
		LicenseClass:         r.LicenseClass,
		LicenseClassCode:     r.LicenseClassCode,
		ResidencyStatus:      r.ResidencyStatus,
		Active:               r.Active,
		AdhsIndicator:        r.AdhsIndicator,
	}
}

func toDetail(licenseID uuid.UUID, r pdb.DetailRecord) *models.LicenseDetail {
	return &models.LicenseDetail{
		LicenseID:          licenseID,
		LOA:                r.LOA,
		LOACode:            r.LOACode,
		AuthorityIssueDate: r.AuthorityIssueDate,
		Status:             r.Status,
		StatusReason:       r.StatusReason,
		StatusReasonDate:   r.StatusReasonDate,
		CECompliance:       r.CECompliance,
		CECreditsNeeded:    r.CECreditsNeeded,
	}
}

func toAppointment(stateID uuid.UUID, r pdb.AppointmentRecord) *models.Appointment {
	return &models.Appointment{
		StateID:            stateID,
		CompanyName:        r.CompanyName,
		FEIN:               r.FEIN,
		COCode:             r.COCode,
		LineOfAuthority:    r.LineOfAuthority,
		LOACode:            r.LOACode,
		Status:             r.Status,
		TerminationReason:  r.TerminationReason,
		StatusReasonDate:   r.StatusReasonDate,
		AppontRenewalDate:  r.AppontRenewalDate,
		AgencyAffiliations: r.AgencyAffiliations,
		CountyCode:         r.CountyCode,
	}
}
