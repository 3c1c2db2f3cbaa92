package pdb

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
	"github.com/agentops/licensetrack/pkg/fieldmap"
)

// DateLayout is the MM/DD/YYYY format used by every date in the report.
const DateLayout = "1/2/2006"

const (
	tagRoot                   = "PDB"
	tagProducer               = "PRODUCER"
	tagIndividual             = "INDIVIDUAL"
	tagProducerLicensing      = "PRODUCER_LICENSING"
	tagLicenseInformation     = "LICENSE_INFORMATION"
	tagState                  = "STATE"
	tagLicense                = "LICENSE"
	tagDetails                = "DETAILS"
	tagDetail                 = "DETAIL"
	tagAppointmentInformation = "APPOINTMENT_INFORMATION"
	tagAppointment            = "APPOINTMENT"
	tagEntityBiographic       = "ENTITY_BIOGRAPHIC"
	tagBiographic             = "BIOGRAPHIC"

	fieldStateName = "name"
)

// Report is the validated projection of an entity info document.
type Report struct {
	FirstName string
	LastName  string
	States    []StateRecord
}

// StateRecord groups the licenses and appointments held in one jurisdiction.
type StateRecord struct {
	Name         string
	Licenses     []LicenseRecord
	Appointments []AppointmentRecord
	// Skipped describes entries that were not flat records or lacked their key.
	Skipped []string
}

type LicenseRecord struct {
	LicenseNum           string
	DateUpdated          *time.Time
	DateIssueLicenseOrig *time.Time
	DateExpireLicense    *time.Time
	LicenseClass         string
	LicenseClassCode     string
	ResidencyStatus      string
	Active               string
	AdhsIndicator        string
	Details              []DetailRecord
	// Present lists the columns carried by the document, so an update can
	// leave absent ones untouched.
	Present []string
}

type DetailRecord struct {
	LOA                string
	LOACode            string
	AuthorityIssueDate *time.Time
	Status             string
	StatusReason       string
	StatusReasonDate   *time.Time
	CECompliance       string
	CECreditsNeeded    string
	Present            []string
}

type AppointmentRecord struct {
	CompanyName        string
	FEIN               string
	COCode             string
	LineOfAuthority    string
	LOACode            string
	Status             string
	TerminationReason  string
	StatusReasonDate   *time.Time
	AppontRenewalDate  *time.Time
	AgencyAffiliations string
	CountyCode         string
	Present            []string
}

var licenseColumns = fieldmap.Columns[LicenseRecord]{
	"license_num":             fieldmap.Text(func(r *LicenseRecord) *string { return &r.LicenseNum }),
	"date_updated":            fieldmap.Date("date_updated", func(r *LicenseRecord) **time.Time { return &r.DateUpdated }, DateLayout),
	"date_issue_license_orig": fieldmap.Date("date_issue_license_orig", func(r *LicenseRecord) **time.Time { return &r.DateIssueLicenseOrig }, DateLayout),
	"date_expire_license":     fieldmap.Date("date_expire_license", func(r *LicenseRecord) **time.Time { return &r.DateExpireLicense }, DateLayout),
	"license_class":           fieldmap.Text(func(r *LicenseRecord) *string { return &r.LicenseClass }),
	"license_class_code":      fieldmap.Text(func(r *LicenseRecord) *string { return &r.LicenseClassCode }),
	"residency_status":        fieldmap.Text(func(r *LicenseRecord) *string { return &r.ResidencyStatus }),
	"active":                  fieldmap.Text(func(r *LicenseRecord) *string { return &r.Active }),
	"adhs_indicator":          fieldmap.Text(func(r *LicenseRecord) *string { return &r.AdhsIndicator }),
}

var detailColumns = fieldmap.Columns[DetailRecord]{
	"loa":                  fieldmap.Text(func(r *DetailRecord) *string { return &r.LOA }),
	"loa_code":             fieldmap.Text(func(r *DetailRecord) *string { return &r.LOACode }),
	"authority_issue_date": fieldmap.Date("authority_issue_date", func(r *DetailRecord) **time.Time { return &r.AuthorityIssueDate }, DateLayout),
	"status":               fieldmap.Text(func(r *DetailRecord) *string { return &r.Status }),
	"status_reason":        fieldmap.Text(func(r *DetailRecord) *string { return &r.StatusReason }),
	"status_reason_date":   fieldmap.Date("status_reason_date", func(r *DetailRecord) **time.Time { return &r.StatusReasonDate }, DateLayout),
	"ce_compliance":        fieldmap.Text(func(r *DetailRecord) *string { return &r.CECompliance }),
	"ce_credits_needed":    fieldmap.Text(func(r *DetailRecord) *string { return &r.CECreditsNeeded }),
}

var appointmentColumns = fieldmap.Columns[AppointmentRecord]{
	"company_name":        fieldmap.Text(func(r *AppointmentRecord) *string { return &r.CompanyName }),
	"fein":                fieldmap.Text(func(r *AppointmentRecord) *string { return &r.FEIN }),
	"cocode":              fieldmap.Text(func(r *AppointmentRecord) *string { return &r.COCode }),
	"line_of_authority":   fieldmap.Text(func(r *AppointmentRecord) *string { return &r.LineOfAuthority }),
	"loa_code":            fieldmap.Text(func(r *AppointmentRecord) *string { return &r.LOACode }),
	"status":              fieldmap.Text(func(r *AppointmentRecord) *string { return &r.Status }),
	"termination_reason":  fieldmap.Text(func(r *AppointmentRecord) *string { return &r.TerminationReason }),
	"status_reason_date":  fieldmap.Date("status_reason_date", func(r *AppointmentRecord) **time.Time { return &r.StatusReasonDate }, DateLayout),
	"appont_renewal_date": fieldmap.Date("appont_renewal_date", func(r *AppointmentRecord) **time.Time { return &r.AppontRenewalDate }, DateLayout),
	"agency_affiliations": fieldmap.Text(func(r *AppointmentRecord) *string { return &r.AgencyAffiliations }),
	"county_code":         fieldmap.Text(func(r *AppointmentRecord) *string { return &r.CountyCode }),
}

var licensingPath = []string{tagProducer, tagIndividual, tagProducerLicensing, tagLicenseInformation}

// Decode parses an entity info document and validates the licensing path.
func Decode(body []byte) (*Report, error) {
	var root element
	if err := xml.NewDecoder(bytes.NewReader(body)).Decode(&root); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode entity info xml")
	}
	if !strings.EqualFold(root.name(), tagRoot) {
		return nil, missingElement([]string{tagRoot})
	}

	current := root
	walked := []string{tagRoot}
	for _, segment := range licensingPath {
		walked = append(walked, segment)
		next, ok := current.child(segment)
		if !ok {
			return nil, missingElement(walked)
		}
		current = next
	}

	report := &Report{}
	if individual, ok := descend(root, tagProducer, tagIndividual); ok {
		if bio, ok := descend(individual, tagEntityBiographic, tagBiographic); ok {
			fields := bio.fields()
			report.FirstName = fields["name_first"]
			report.LastName = fields["name_last"]
		}
	}

	for _, stateEl := range current.all(tagState) {
		state, err := decodeState(stateEl)
		if err != nil {
			return nil, err
		}
		report.States = append(report.States, state)
	}
	return report, nil
}

func decodeState(el element) (StateRecord, error) {
	fields := el.fields()
	name := strings.ToUpper(fields[fieldStateName])
	if name == "" {
		return StateRecord{}, pkgerrors.New(pkgerrors.CodeDependency, "directory report STATE element missing name attribute")
	}
	state := StateRecord{Name: name}

	for _, licenseEl := range el.all(tagLicense) {
		license, skipped, err := decodeLicense(name, licenseEl)
		if err != nil {
			return StateRecord{}, err
		}
		state.Skipped = append(state.Skipped, skipped...)
		if license != nil {
			state.Licenses = append(state.Licenses, *license)
		}
	}

	info, ok := el.child(tagAppointmentInformation)
	if !ok {
		return state, nil
	}
	for _, apptEl := range info.all(tagAppointment) {
		if !apptEl.isFlat() {
			state.Skipped = append(state.Skipped, fmt.Sprintf("%s appointment: nested record", name))
			continue
		}
		fields := apptEl.fields()
		appt := AppointmentRecord{Present: fieldmap.Present(fields, appointmentColumns)}
		if _, err := fieldmap.Apply(&appt, fields, appointmentColumns); err != nil {
			return StateRecord{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("state %s appointment", name))
		}
		if appt.CompanyName == "" {
			state.Skipped = append(state.Skipped, fmt.Sprintf("%s appointment: missing company_name", name))
			continue
		}
		state.Appointments = append(state.Appointments, appt)
	}
	return state, nil
}

func decodeLicense(state string, el element) (*LicenseRecord, []string, error) {
	fields := el.fields()
	license := LicenseRecord{Present: fieldmap.Present(fields, licenseColumns)}
	if _, err := fieldmap.Apply(&license, fields, licenseColumns); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("state %s license", state))
	}
	if license.LicenseNum == "" {
		return nil, []string{fmt.Sprintf("%s license: missing license_num", state)}, nil
	}

	var skipped []string
	details, ok := el.child(tagDetails)
	if !ok {
		return &license, nil, nil
	}
	flat, nestedSkipped := flattenDetails(details.all(tagDetail))
	for i := 0; i < nestedSkipped; i++ {
		skipped = append(skipped, fmt.Sprintf("%s license %s detail: nested record", state, license.LicenseNum))
	}
	for _, detailEl := range flat {
		fields := detailEl.fields()
		detail := DetailRecord{Present: fieldmap.Present(fields, detailColumns)}
		if _, err := fieldmap.Apply(&detail, fields, detailColumns); err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("state %s license %s detail", state, license.LicenseNum))
		}
		if detail.LOA == "" {
			skipped = append(skipped, fmt.Sprintf("%s license %s detail: missing loa", state, license.LicenseNum))
			continue
		}
		license.Details = append(license.Details, detail)
	}
	return &license, skipped, nil
}

func descend(from element, path ...string) (element, bool) {
	current := from
	for _, segment := range path {
		next, ok := current.child(segment)
		if !ok {
			return element{}, false
		}
		current = next
	}
	return current, true
}

func missingElement(path []string) error {
	return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("directory report missing element %s", strings.Join(path, "/")))
}
