// Package common contains shared constants and sentinel errors used across
// vsnap components.
package common

// AppName is used to derive the per-user data directory name.
const AppName = "vsnap"

// AppVersion is recorded in the config table when the store is initialized.
const AppVersion = "1.3.0"
