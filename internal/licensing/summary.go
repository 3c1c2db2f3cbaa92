package licensing

import "github.com/google/uuid"

// ImportSummary reports what one licensing import run touched.
type ImportSummary struct {
	SalesmanID          uuid.UUID `json:"salesman_id"`
	NPN                 string    `json:"npn"`
	SalesmanCreated     bool      `json:"salesman_created"`
	NameUpdated         bool      `json:"name_updated"`
	States              int       `json:"states"`
	StatesCreated       int       `json:"states_created"`
	Licenses            int       `json:"licenses"`
	LicensesCreated     int       `json:"licenses_created"`
	Details             int       `json:"details"`
	DetailsCreated      int       `json:"details_created"`
	Appointments        int       `json:"appointments"`
	AppointmentsCreated int       `json:"appointments_created"`
	Skipped             []string  `json:"skipped,omitempty"`
	Warnings            []string  `json:"warnings,omitempty"`
}
