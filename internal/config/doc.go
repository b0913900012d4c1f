// Package config provides configuration loading for the sales pipeline.
//
// # Configuration Sources
//
// Configuration is resolved in the following order, later sources winning:
//
//  1. Default values (Default)
//  2. config.yaml (config.yaml, configs/config.yaml)
//  3. A .env file in the working directory
//  4. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern SALES_<SECTION>_<FIELD>:
//
//	SALES_SOURCE_DRIVER=sqlite
//	SALES_SOURCE_PATH=data/raw/northwind.db
//	SALES_OUTPUT_DIR=data/processed
//	SALES_REPORT_TOP_N=20
//	SALES_LOGGING_LEVEL=debug
//	SALES_TELEMETRY_TRACE_EXPORTER=stdout
//
// The loaded struct is validated with go-playground/validator tags.
package config
