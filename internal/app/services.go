// Package app assembles the domain services shared by the api, cron-worker
// and rosterctl binaries.
package app

import (
	"errors"
	"fmt"

	"github.com/agentops/licensetrack/internal/licensing"
	"github.com/agentops/licensetrack/internal/roster"
	"github.com/agentops/licensetrack/internal/salesmen"
	"github.com/agentops/licensetrack/pkg/config"
	"github.com/agentops/licensetrack/pkg/db"
	"github.com/agentops/licensetrack/pkg/logger"
	"github.com/agentops/licensetrack/pkg/metrics"
	"github.com/agentops/licensetrack/pkg/pdb"
)

// Services holds the wired domain layer. Licensing is nil when no directory
// credentials are configured.
type Services struct {
	SalesmenRepo *salesmen.Repository
	Salesmen     salesmen.Service
	Licensing    licensing.Service
	Roster       roster.Service
}

// NewDirectoryClient builds the producer directory client from config.
func NewDirectoryClient(cfg config.DirectoryConfig) (*pdb.Client, error) {
	return pdb.NewClient(cfg.CustomerNumber, cfg.PIN,
		pdb.WithBaseURL(cfg.BaseURL),
		pdb.WithReportType(cfg.ReportType),
		pdb.WithTimeout(cfg.Timeout),
	)
}

// BuildServices wires repositories and services over client. importMetrics may be nil.
func BuildServices(cfg *config.Config, logg *logger.Logger, client *db.Client, importMetrics *metrics.ImportMetrics) (*Services, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	if client == nil {
		return nil, errors.New("database client required")
	}

	salesmenRepo := salesmen.NewRepository(client.DB())
	salesmenSvc, err := salesmen.NewService(salesmenRepo)
	if err != nil {
		return nil, fmt.Errorf("salesmen service: %w", err)
	}

	out := &Services{SalesmenRepo: salesmenRepo, Salesmen: salesmenSvc}

	var importer roster.LicensingImporter
	if cfg.Directory.CustomerNumber != "" {
		directory, err := NewDirectoryClient(cfg.Directory)
		if err != nil {
			return nil, fmt.Errorf("directory client: %w", err)
		}
		licensingSvc, err := licensing.NewService(licensing.NewRepository(client.DB()), client, directory, logg, importMetrics)
		if err != nil {
			return nil, fmt.Errorf("licensing service: %w", err)
		}
		out.Licensing = licensingSvc
		importer = licensingSvc
	}

	rosterSvc, err := roster.NewService(roster.NewRepository(client.DB()), client, importer, logg, importMetrics)
	if err != nil {
		return nil, fmt.Errorf("roster service: %w", err)
	}
	out.Roster = rosterSvc

	return out, nil
}
