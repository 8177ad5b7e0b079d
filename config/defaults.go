package config

import (
	"github.com/spf13/viper"
)

// defaultDatasets is the table of Global Fund CSV exports served by the
// remote data service, keyed by stable dataset key. Overridable per
// deployment through the [datasets] config section.
var defaultDatasets = map[string]string{
	"gf_results":                                     "https://data-service.theglobalfund.org/file_download/gf_reported_results_dataset/CSV",
	"gf_pledges_contributions":                       "https://data-service.theglobalfund.org/file_download/pledges_contributions_reference_rate_dataset/CSV",
	"gf_eligibility":                                 "https://data-service.theglobalfund.org/file_download/eligibility_dataset/CSV",
	"gf_allocations":                                 "https://data-service.theglobalfund.org/file_download/allocations_dataset/CSV",
	"gf_grant_implementation":                        "https://data-service.theglobalfund.org/file_download/grant_implementation_periods/CSV",
	"gf_grant_commitments":                           "https://data-service.theglobalfund.org/file_download/grant_commitments_reference_rate_dataset/CSV",
	"gf_grant_disbursements":                         "https://data-service.theglobalfund.org/file_download/grant_disbursements_reference_rate_dataset/CSV",
	"gf_grant_budgets":                               "https://data-service.theglobalfund.org/file_download/grant_budgets_reference_rate/CSV",
	"gf_grant_expenditures_modules_interventions":    "https://data-service.theglobalfund.org/file_download/grant_expendituress_modules_interventions_reference_rate_dataset/CSV",
	"gf_grant_expenditures_investment_landscape":     "https://data-service.theglobalfund.org/file_download/grant_expendituress_investment_landscape_reference_rate_dataset/CSV",
	"gf_grant_targets_results":                       "https://data-service.theglobalfund.org/file_download/grant_targets_results_dataset/CSV",
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.api_keys", []string{"ZIMMERMAN"})
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Storage defaults
	v.SetDefault("database.path", "gfdata.db")
	v.SetDefault("staging.dir", "staging")

	// Fetch defaults. The data service serves large CSV exports, so the
	// timeout is generous; the request budget keeps batch runs polite.
	v.SetDefault("fetch.timeout_seconds", 120)
	v.SetDefault("fetch.requests_per_minute", 30)

	// Refresh defaults: manual only, enable the ticker per deployment
	v.SetDefault("refresh.interval_seconds", 0)

	v.SetDefault("datasets", defaultDatasets)
}

// BindSensitiveEnvVars explicitly binds sensitive configuration to environment variables
func BindSensitiveEnvVars(v *viper.Viper) {
	// Deployments normally supply the API key via environment rather than file
	v.BindEnv("server.api_keys", "GFDATA_API_KEY")
}
