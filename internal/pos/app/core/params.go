package core

import "time"

const (
	// ServiceTaxRate is the flat optional service tax applied on settlement.
	ServiceTaxRate = 0.10

	// RequestTimeout bounds every request-scoped operation.
	RequestTimeout = 10 * time.Second

	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	ShutdownTimeout = 15 * time.Second
)

// ServerParams are the command line parameters of the service.
type ServerParams struct {
	Port int
}
