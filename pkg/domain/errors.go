package domain

import "errors"

// ErrStateNotFound is returned when a state name is not registered in the machine.
var ErrStateNotFound = errors.New("state not found")

// ErrDuplicateState is returned by builders when the same state name is declared twice.
var ErrDuplicateState = errors.New("duplicate state")

// ErrDanglingTarget is returned when a transition points at a state that was never declared.
var ErrDanglingTarget = errors.New("transition target not declared")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownPlay is returned when a play name is not part of the playbook.
var ErrUnknownPlay = errors.New("unknown play")

// ErrUnrecognizedInstruction is returned when no keyword of the instruction table matches.
var ErrUnrecognizedInstruction = errors.New("unrecognized instruction")

// ErrPlayMismatch is returned when a snapshot taken from one play is restored into another.
var ErrPlayMismatch = errors.New("snapshot belongs to another play")
