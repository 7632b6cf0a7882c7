// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for file discovery and parsing, translation of
// the schema structures into config.Model, and model validation.
package hcl
