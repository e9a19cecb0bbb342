// Package config loads the configuration of the housing ingest tool.
//
// Values are resolved in order of increasing precedence:
//
//  1. Default()
//  2. A YAML file (config.yaml or configs/config.yaml, or an explicit path)
//  3. Environment variables prefixed with HOUSING_
//
// Environment variables follow the section/field layout of Config:
//
//	HOUSING_INGEST_INPUT_PATH=kc_house_data.csv
//	HOUSING_INGEST_X_FIELD=sqft_living
//	HOUSING_INGEST_Y_FIELD=price
//	HOUSING_LOGGING_LEVEL=debug
//	HOUSING_TELEMETRY_TRACE_EXPORTER=stdout
//
// The merged result is validated with go-playground/validator struct tags
// before Load returns it.
package config
