// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the checker to function:
//
//   - DocumentView: The live document being analysed. Supplies viewport
//     bounds, line lookups, parser progress, and applies state update
//     commands produced by completed cycles.
//   - AnalysisService: The paragraph analysis backend. One request per
//     cycle, cancellable through its context.
//   - ConfigStore: Application configuration.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
