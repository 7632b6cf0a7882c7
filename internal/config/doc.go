// Package config defines the format-agnostic configuration model.
//
// Format-specific loaders (see internal/hcl) translate files into a Model;
// the rest of the application never sees the source format.
package config
