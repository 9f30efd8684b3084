// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// When no file is given the job runs from an embedded default (default.yaml) that is
// filled entirely from the environment, which is how the deployed function is configured:
//
//	RAPIDAPI_API_KEY           statistics API key
//	BQ_PROJECT_DATASET_TABLE   target table, project.dataset.table
//	BQ_CREDENTIALS_FILE        service-account JSON (optional, ADC when empty)
package config
