package licensing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentops/licensetrack/pkg/db/models"
	"github.com/agentops/licensetrack/pkg/pdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodedEntityInfo decodes the directory fixture after applying old/new
// replacement pairs to its text.
func decodedEntityInfo(t *testing.T, replacements ...string) *pdb.Report {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("..", "..", "pkg", "pdb", "testdata", "entityinfo.xml"))
	require.NoError(t, err)
	text := string(body)
	for i := 0; i+1 < len(replacements); i += 2 {
		require.Contains(t, text, replacements[i])
		text = strings.Replace(text, replacements[i], replacements[i+1], 1)
	}
	report, err := pdb.Decode([]byte(text))
	require.NoError(t, err)
	return report
}

func TestImportDecodedDocumentTwice(t *testing.T) {
	f := newFixture(t)
	f.directory.report = decodedEntityInfo(t)
	salesman := f.createSalesman(t, models.Salesman{NPN: models.StringPtr("8675309")})
	ctx := context.Background()
	gdb := f.client.DB()

	for run := 1; run <= 2; run++ {
		summary, err := f.svc.Import(ctx, salesman.ID)
		require.NoError(t, err, "run %d", run)
		assert.Equal(t, []string{"FL appointment: nested record"}, summary.Skipped, "run %d", run)

		assert.EqualValues(t, 3, countRows(t, gdb, &models.State{}), "run %d", run)
		assert.EqualValues(t, 2, countRows(t, gdb, &models.License{}), "run %d", run)
		assert.EqualValues(t, 4, countRows(t, gdb, &models.LicenseDetail{}), "run %d", run)
		assert.EqualValues(t, 2, countRows(t, gdb, &models.Appointment{}), "run %d", run)
	}

	var fl models.State
	require.NoError(t, gdb.Where("salesman_id = ? AND name = ?", salesman.ID, "FL").First(&fl).Error)
	assert.Zero(t, countRows(t, gdb.Where("state_id = ?", fl.ID), &models.Appointment{}))

	var license models.License
	require.NoError(t, gdb.Where("license_num = ?", "W998877").First(&license).Error)
	assert.EqualValues(t, 2, countRows(t, gdb.Where("license_id = ?", license.ID), &models.LicenseDetail{}))
}

func TestReimportKeepsColumnsMissingFromDocument(t *testing.T) {
	f := newFixture(t)
	f.directory.report = decodedEntityInfo(t)
	salesman := f.createSalesman(t, models.Salesman{NPN: models.StringPtr("8675309")})
	ctx := context.Background()

	_, err := f.svc.Import(ctx, salesman.ID)
	require.NoError(t, err)

	f.directory.report = decodedEntityInfo(t,
		"<LICENSE_CLASS>Producer</LICENSE_CLASS>", "",
		"<DATE_UPDATED>03/15/2019</DATE_UPDATED>", "",
		"<ACTIVE>Yes</ACTIVE>\n              <ADHS_INDICATOR>", "<ACTIVE>No</ACTIVE>\n              <ADHS_INDICATOR>",
		"<STATUS_REASON>Issued</STATUS_REASON>", "",
		"<FEIN>123456789</FEIN>", "",
	)
	summary, err := f.svc.Import(ctx, salesman.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.LicensesCreated)

	gdb := f.client.DB()
	var license models.License
	require.NoError(t, gdb.Where("license_num = ?", "12345").First(&license).Error)
	assert.Equal(t, "Producer", license.LicenseClass)
	require.NotNil(t, license.DateUpdated)
	assert.Equal(t, "2019-03-15", license.DateUpdated.Format("2006-01-02"))
	assert.Equal(t, "No", license.Active)
	assert.Equal(t, "12", license.LicenseClassCode)

	var detail models.LicenseDetail
	require.NoError(t, gdb.Where("license_id = ? AND loa = ?", license.ID, "Life").First(&detail).Error)
	assert.Equal(t, "Issued", detail.StatusReason)
	assert.Equal(t, "Y", detail.CECompliance)

	var appt models.Appointment
	require.NoError(t, gdb.Where("company_name = ?", "ACME LIFE INSURANCE COMPANY").First(&appt).Error)
	assert.Equal(t, "123456789", appt.FEIN)
	assert.Equal(t, "Appointed", appt.Status)
}

func TestImportWarnsOnUnknownJurisdiction(t *testing.T) {
	f := newFixture(t)
	f.directory.report = decodedEntityInfo(t, `<STATE name="TX"/>`, `<STATE name="pr"/>`)
	salesman := f.createSalesman(t, models.Salesman{NPN: models.StringPtr("8675309")})

	summary, err := f.svc.Import(context.Background(), salesman.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"PR: not one of the 50 states or DC"}, summary.Warnings)
	assert.Equal(t, 3, summary.States)

	var state models.State
	require.NoError(t, f.client.DB().Where("salesman_id = ? AND name = ?", salesman.ID, "PR").First(&state).Error)
}
