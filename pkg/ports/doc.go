// Package ports defines the interfaces robofsm depends on at its edges.
//
// Adapters live under pkg/adapters; pkg/ports/tests holds the contract
// suite every SnapshotStore implementation must pass.
package ports
