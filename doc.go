/*
Package robofsm is a finite state machine engine for robot behaviors, such as
the pass, shoot, block and intercept plays of a RoboCup SSL team.

A machine is a graph of named states. Each processed event runs the entry
action of the current state and then follows at most one eligible transition.
Outcome events ("BALL_RECEIVED", "SHOT_MISSED", ...) prefer a final state of
the matching classification; any other event follows the first eligible
transition in declaration order. Transition probabilities are carried as
metadata and only consulted when weighted selection is explicitly enabled.

# Key Features

  - Deterministic Execution: Given the same graph and events, the run is always reproducible.
  - Configurable Outcome Bias: The success/failure event sets are plain configuration.
  - Hexagonal Architecture: The core is decoupled from actuators, storage and presentation.
  - Snapshots: A machine position can be persisted and restored (memory, file or Redis).

# Usage

	package main

	import (
		"fmt"

		"github.com/aretw0/robofsm/pkg/domain"
		"github.com/aretw0/robofsm/pkg/dsl"
	)

	func main() {
		b := dsl.New("INITIAL")
		b.Add("INITIAL").On("SHOOT", domain.EventBallKicked)
		b.Add("SHOOT").
			OnP("GOAL", 0.7, domain.EventGoalScored).
			On("MISSED", domain.EventShotMissed)
		b.Add("GOAL").Final(true)
		b.Add("MISSED").Final(false)

		m, err := b.Build()
		if err != nil {
			panic(err)
		}

		m.ProcessEvent(domain.EventBallKicked)
		done := m.ProcessEvent(domain.EventGoalScored)
		fmt.Println(m.Current().Name, done) // GOAL true
	}
*/
package robofsm
