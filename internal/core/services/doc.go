// Package services implements the core application services: the
// ingestion pipeline, question answering, tenant identity, and settings.
// Services depend only on the port interfaces; concrete adapters are
// injected at construction time.
package services
