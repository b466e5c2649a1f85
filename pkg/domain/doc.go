/*
Package domain contains the core data model of the robofsm engine.
It defines the fundamental entities of a behavior graph, such as States,
Transitions, Conditions and Actions, plus the serializable Snapshot of a
running machine. This package is kept pure and free of I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - State: A named node with an optional entry Action and a final/success classification.
  - Transition: An edge to a target State, guarded by a Condition, annotated with a Probability.
  - OutcomeSignals: The two event sets used to bias selection towards success or failure finals.
  - Snapshot: The persisted position of a machine (current state and history).
*/
package domain
