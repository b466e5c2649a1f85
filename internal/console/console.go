// Package console implements the interactive planning menu over an
// io.Reader/io.Writer pair: instruction to play, explanation, ASCII view,
// step-through simulation, export and help.
package console

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/robofsm"
	"github.com/aretw0/robofsm/internal/logging"
	"github.com/aretw0/robofsm/internal/presentation/graph"
	"github.com/aretw0/robofsm/internal/presentation/tui"
	"github.com/aretw0/robofsm/pkg/domain"
	"github.com/aretw0/robofsm/pkg/instruction"
	"github.com/aretw0/robofsm/pkg/playbook"
	"github.com/aretw0/robofsm/pkg/session"
)

// DefaultExportFile is offered when the user leaves the export filename empty.
const DefaultExportFile = "fsm_export.txt"

//go:embed glossary.md
var glossary string

// Options configures a Console.
type Options struct {
	In  io.Reader
	Out io.Writer

	// Actions binds entry actions of the built machines (acting robot, actuator).
	Actions playbook.Actions
	// MachineOptions apply to every machine (signals, selection, logger).
	MachineOptions []robofsm.Option
	// Hooks, when set, observes each machine under its play name.
	Hooks func(play string) domain.LifecycleHooks

	// Sessions persists simulation snapshots under SessionID when both are set.
	Sessions  *session.Manager
	SessionID string

	// Auto sends every simulation event without waiting for Enter.
	Auto bool
	// Styled enables colors and rich markdown rendering.
	Styled bool
	// Dir is where relative export filenames are written. Defaults to the working directory.
	Dir string

	Logger *slog.Logger
}

// Console is the interactive front-end. It is not safe for concurrent use.
type Console struct {
	opts   Options
	in     *bufio.Reader
	out    io.Writer
	logger *slog.Logger
}

// New creates a Console. Nil In and Out default to the process stdin and stdout.
func New(opts Options) *Console {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Console{
		opts:   opts,
		in:     bufio.NewReader(opts.In),
		out:    opts.Out,
		logger: logger,
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(lines ...string) {
	for _, l := range lines {
		fmt.Fprintln(c.out, l)
	}
}

// prompt prints label and reads one trimmed line. A last line without a
// newline is accepted; io.EOF is returned only when nothing was read.
func (c *Console) prompt(label string) (string, error) {
	c.printf("%s", label)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) confirm(label string) (bool, error) {
	answer, err := c.prompt(label)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}

// Run shows the main menu until the user quits or the input ends.
func (c *Console) Run(ctx context.Context) error {
	if c.opts.Styled {
		tui.PrintBanner(c.out)
	}
	c.println(
		"\n=== Robotic Action Planning System for RoboCup SSL ===",
		"\nThis program allows you to generate and simulate robotic behaviors",
		"for soccer matches using finite state machines (FSM).",
		"\nEach FSM represents a sequence of actions a robot can perform,",
		"such as going to the ball, aligning, passing, shooting, etc.",
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.println(
			"\nMain menu:",
			"1. Generate FSM from instruction",
			"2. Simulate predefined FSM",
			"3. Export FSM",
			"4. Help and glossary",
			"5. Quit",
		)
		choice, err := c.prompt("\nChoose an option: ")
		if err != nil {
			return endOfInput(err)
		}

		switch choice {
		case "1":
			err = c.generate(ctx)
		case "2":
			err = c.predefined(ctx)
		case "3":
			err = c.exportMenu()
		case "4":
			err = c.help()
		case "5":
			c.println("Thank you for using the robotic action planning system!")
			return nil
		default:
			c.println("Invalid option. Please try again.")
		}
		if err != nil {
			return endOfInput(err)
		}
	}
}

// endOfInput turns a closed input into a clean exit.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Console) generate(ctx context.Context) error {
	c.println(
		"\nPlease enter an instruction for the robot.",
		"Valid instruction examples:",
		"  - Pass the ball to R2",
		"  - Shoot the ball into the goal",
		"  - Block R3",
		"  - Intercept the ball",
	)
	text, err := c.prompt("\nYour instruction: ")
	if err != nil {
		return err
	}

	plan, m, err := c.Describe(text)
	if errors.Is(err, domain.ErrUnrecognizedInstruction) {
		c.logger.Debug("instruction rejected", "instruction", text, "err", err)
		c.println("\nUnrecognized instruction")
		return nil
	}
	if err != nil {
		return err
	}

	ok, err := c.confirm("\nDo you want to simulate this FSM? (y/n): ")
	if err != nil {
		return err
	}
	if ok {
		if _, err := c.Simulate(ctx, m, plan.Description, plan.Play.Steps); err != nil {
			return err
		}
	}

	ok, err = c.confirm("\nDo you want to export this FSM? (y/n): ")
	if err != nil {
		return err
	}
	if ok {
		return c.exportPrompt(m)
	}
	return nil
}

// Describe maps text to a play, builds its machine and presents it.
// Unknown instructions return domain.ErrUnrecognizedInstruction.
func (c *Console) Describe(text string) (*playbook.Plan, *robofsm.Machine, error) {
	task, err := instruction.Parse(text)
	if err != nil {
		return nil, nil, err
	}
	plan, err := playbook.FromTask(task)
	if err != nil {
		return nil, nil, err
	}
	m, err := plan.Build(c.opts.Actions, c.machineOptions(plan.Play.Name)...)
	if err != nil {
		return nil, nil, err
	}
	c.Present(plan.Play, m)
	return plan, m, nil
}

func (c *Console) choosePlay(header, label string) (*playbook.Play, error) {
	c.println(header)
	plays := playbook.All()
	for i, p := range plays {
		c.printf("%d. %s\n", i+1, p.Title)
	}
	choice, err := c.prompt(label)
	if err != nil {
		return nil, err
	}
	for i, p := range plays {
		if choice == fmt.Sprint(i+1) {
			return p, nil
		}
	}
	c.println("Invalid choice.")
	return nil, nil
}

func (c *Console) predefined(ctx context.Context) error {
	p, err := c.choosePlay("\nChoose a predefined FSM:", "\nChoose a FSM: ")
	if err != nil || p == nil {
		return err
	}
	m, err := c.Build(p, "")
	if err != nil {
		return err
	}
	c.Present(p, m)
	_, err = c.Simulate(ctx, m, p.Title, p.Steps)
	return err
}

func (c *Console) exportMenu() error {
	p, err := c.choosePlay("\nExport FSM:", "\nChoose a FSM to export: ")
	if err != nil || p == nil {
		return err
	}
	m, err := c.Build(p, "")
	if err != nil {
		return err
	}
	return c.exportPrompt(m)
}

func (c *Console) help() error {
	if err := c.Glossary(); err != nil {
		return err
	}
	_, err := c.prompt("\nPress Enter to return to main menu...")
	return err
}

// Build creates the machine of p aimed at target, with the console options applied.
func (c *Console) Build(p *playbook.Play, target string) (*robofsm.Machine, error) {
	return p.Build(playbook.Config{Actions: c.opts.Actions, Target: target}, c.machineOptions(p.Name)...)
}

func (c *Console) machineOptions(play string) []robofsm.Option {
	opts := append([]robofsm.Option(nil), c.opts.MachineOptions...)
	if c.opts.Hooks != nil {
		opts = append(opts, robofsm.WithLifecycleHooks(c.opts.Hooks(play)))
	}
	return opts
}

// Present prints the explanation of p and the ASCII view of m.
func (c *Console) Present(p *playbook.Play, m *robofsm.Machine) {
	c.printf("\nExplanation of this FSM:\n%s", p.ExplanationText())

	marks := graph.DefaultMarks
	if c.opts.Styled {
		marks = tui.Marks(c.out)
	}
	c.printf("\nFSM Visualization:\n%s", graph.RenderASCIIWith(m, marks))
}

// Glossary prints the help and glossary page.
func (c *Console) Glossary() error {
	out, err := tui.NewRenderer(c.opts.Styled)(glossary)
	if err != nil {
		c.logger.Warn("markdown rendering failed", "err", err)
		out = glossary
	}
	c.printf("%s", out)
	return nil
}

func (c *Console) exportPrompt(m *robofsm.Machine) error {
	name, err := c.prompt("Export filename (default: " + DefaultExportFile + "): ")
	if err != nil {
		return err
	}
	if name == "" {
		name = DefaultExportFile
	}
	if err := c.Export(m, name); err != nil {
		c.printf("Export failed: %v\n", err)
		return nil
	}
	c.printf("FSM successfully exported to file '%s'\n", name)
	return nil
}

// Export writes the text listing of m to name, relative to the console directory.
func (c *Console) Export(m *robofsm.Machine, name string) error {
	path := name
	if !filepath.IsAbs(path) && c.opts.Dir != "" {
		path = filepath.Join(c.opts.Dir, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := graph.WriteListing(f, m); err != nil {
		f.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}
	return f.Close()
}
