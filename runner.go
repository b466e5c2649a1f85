package robofsm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/robofsm/pkg/domain"
)

// Step is one scripted event of a simulation and the state it should lead to.
type Step struct {
	Event  string `json:"event" yaml:"event"`
	Expect string `json:"expect" yaml:"expect"`
}

// Result summarizes a simulation run.
type Result struct {
	Sent    int
	Quit    bool
	Final   bool
	Success bool
	Path    []string
}

// Runner steps a machine through a scripted event sequence using provided IO.
// This allows for easy testing and integration with different frontends.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool // send every event without waiting for the user

	// OnStep runs after every processed event, e.g. to persist a snapshot.
	OnStep func(ctx context.Context, snapshot domain.Snapshot) error
}

// NewRunner creates a Runner. Input and Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run sends the remaining steps to m. Steps already reflected in the machine
// history (a resumed session) are skipped. The machine is not reset.
func (r *Runner) Run(ctx context.Context, m *Machine, title string, steps []Step) (*Result, error) {
	if r.Output == nil {
		return nil, fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	if r.Input == nil && !r.Headless {
		return nil, fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	w := r.Output

	var lineReader *bufio.Reader
	if r.Input != nil {
		lineReader = bufio.NewReader(r.Input)
	}

	fmt.Fprintf(w, "\nFSM simulation for: %s\n", title)
	fmt.Fprintln(w, "\nProposed event sequence:")
	for i, s := range steps {
		fmt.Fprintf(w, "%d. %s -> %s\n", i+1, s.Event, s.Expect)
	}

	res := &Result{}
	start := min(len(m.History()), len(steps))
	if start > 0 {
		fmt.Fprintf(w, "\nResuming at step %d from '%s'.\n", start+1, m.Current().Name)
	}
	if !r.Headless {
		fmt.Fprintln(w, "\nPress Enter to progress in the simulation, or type 'q' to quit.")
	}

	for _, step := range steps[start:] {
		if err := ctx.Err(); err != nil {
			return r.finish(m, res), err
		}
		if m.Current().Final {
			break
		}

		if !r.Headless {
			fmt.Fprintf(w, "\nPress Enter to send event '%s', or type 'q' to quit: ", step.Event)
			text, err := lineReader.ReadString('\n')
			if err != nil && !(errors.Is(err, io.EOF) && text != "") {
				if errors.Is(err, io.EOF) {
					// Graceful exit on EOF
					fmt.Fprintln(w, "\nSimulation stopped.")
					res.Quit = true
					break
				}
				return r.finish(m, res), fmt.Errorf("input error: %w", err)
			}
			if strings.EqualFold(strings.TrimSpace(text), "q") {
				fmt.Fprintln(w, "Simulation stopped.")
				res.Quit = true
				break
			}
		}

		fmt.Fprintf(w, "Event sent: %s\n", step.Event)
		m.ProcessEvent(step.Event)
		res.Sent++
		fmt.Fprintf(w, "State after event: %s\n", m.Current().Name)

		if r.OnStep != nil {
			if err := r.OnStep(ctx, m.Snapshot()); err != nil {
				return r.finish(m, res), fmt.Errorf("step hook: %w", err)
			}
		}

		if cur := m.Current(); cur.Final {
			fmt.Fprintf(w, "Simulation ended: %s\n", outcomeLabel(cur.Success))
			break
		}
	}

	r.finish(m, res)
	fmt.Fprintln(w, "\nState history:")
	fmt.Fprintln(w, strings.Join(res.Path, " -> "))
	return res, nil
}

func (r *Runner) finish(m *Machine, res *Result) *Result {
	cur := m.Current()
	res.Final = cur.Final
	res.Success = cur.Final && cur.Success
	res.Path = m.Path()
	return res
}

func outcomeLabel(success bool) string {
	if success {
		return "Success"
	}
	return "Failure"
}
