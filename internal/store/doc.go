// Package store defines the persistence contracts of the study scheduler and
// the sentinel errors implementations report. Concrete implementations live
// under internal/platform; services depend only on these interfaces.
package store
