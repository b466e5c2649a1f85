/*
Package dsl provides a Go DSL for programmatically constructing robofsm graphs.

It lets developers declare states by name and wire transitions to names that
are resolved at Build time, so that states can reference each other (and share
final targets) in any declaration order. Unknown targets are reported as
domain.ErrDanglingTarget instead of surfacing at runtime.

Example usage:

	b := dsl.New("INITIAL")

	b.Add("INITIAL").On("GO_TO_BALL", domain.EventNearBall)

	b.Add("GO_TO_BALL").
		DoFunc(func(string) { fmt.Println("moving") }).
		On("SUCCESS", domain.EventBallReceived)

	b.Add("SUCCESS").Final(true)

	m, err := b.Build(robofsm.WithName("demo"))
*/
package dsl
