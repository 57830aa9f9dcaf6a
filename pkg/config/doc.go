// Package config defines the YAML configuration surface for the RAS
// toolchain and its loading pipeline.
//
// Configuration flows through three stages: LoadConfig parses the YAML
// file and applies defaults, LoadConfigWithEnvOverrides additionally
// folds in RAS_* environment variables, and Validate rejects
// structurally valid but semantically broken configurations before any
// component sees them.
//
// The package deliberately stays a leaf: every field is a string,
// number, duration or nested struct of those. Translating scope names
// or log levels into typed values is the consuming package's job, so
// config never imports the packages it configures.
package config
