// Package catalog loads and validates the declarative list of playbook
// sources the operator provisions from.
//
// The catalog is a single-document YAML file with a top-level "sources"
// mapping. Each entry names a directory of playbooks together with its
// execution policy: whether discovery recurses, which filename pattern marks
// a playbook, an optional pre-provision hook, and an optional override of
// the ansible-playbook binary and its environment.
//
// Validation is eager and atomic. Source paths must exist and be readable,
// patterns must compile and engine overrides must point at executable files
// at load time; any failing entry fails the whole load, so a run never
// starts against a partial catalog. The error text for each field is part of
// the operator contract — scripts grep for it — and must not drift.
package catalog
