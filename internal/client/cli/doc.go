// Package cli implements the interactive trainhub client: a REPL that
// authenticates against the server, issues commands over the REST API and
// renders the locally mirrored state kept in sync by the push channel.
package cli
