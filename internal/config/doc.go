// Package config defines the application configuration structures and the
// environment-based loader. All settings arrive through STUDY_-prefixed
// environment variables and are validated before the server starts.
package config
