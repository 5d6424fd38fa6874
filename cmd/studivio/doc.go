// Package main hosts the Studivio CLI entrypoint and command graph.
//
// The Cobra command tree runs the HTTP server, summarises local files and
// YouTube videos without going through the API, lists stored notes, reports
// preflight status, and scaffolds configuration. Configuration is resolved
// once per invocation and shared by every subcommand.
//
// Keep this package lean: behaviour belongs in the internal packages, and
// commands here only parse flags, wire dependencies, and render output.
package main
