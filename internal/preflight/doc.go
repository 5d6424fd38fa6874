// Package preflight provides readiness checks for the directories and
// external services Studivio depends on.
//
// The CLI "studivio status" command runs RunAll and renders the results;
// "studivio serve" runs the directory and database checks before binding.
//
// Optional services (redis revocations, the artifact archive, ntfy) are only
// probed when enabled in the config.
package preflight
