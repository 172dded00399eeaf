// Package app wires the gateway together: validated configuration, an
// isolated logger, and the HTTP API that fronts the reporting client.
package app
