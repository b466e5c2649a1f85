// Package instruction maps free-text orders ("Pass the ball to R2") to a play
// action and its task-sequence template through a keyword table.
package instruction

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aretw0/robofsm/pkg/domain"
	"gopkg.in/yaml.v3"
)

// ParamTargetRobot is the parameter carrying the robot a pass or block is aimed at.
const ParamTargetRobot = "target_robot"

//go:embed table.yaml
var defaultTable []byte

// Entry is one row of the keyword table.
type Entry struct {
	Action        string   `yaml:"action"`
	Keywords      []string `yaml:"keywords"`
	Tasks         []string `yaml:"tasks"`
	Params        []string `yaml:"params"`
	DefaultTarget string   `yaml:"default_target"`
	Description   string   `yaml:"description"`
}

func (e Entry) takes(param string) bool {
	for _, p := range e.Params {
		if p == param {
			return true
		}
	}
	return false
}

// Task is the result of mapping an instruction.
type Task struct {
	Instruction string            `json:"instruction"`
	Action      string            `json:"action"`
	Tasks       []string          `json:"tasks"`
	Params      map[string]string `json:"params,omitempty"`
	Description string            `json:"description"`
}

// Target returns the robot the task is aimed at, if any.
func (t *Task) Target() string {
	return t.Params[ParamTargetRobot]
}

// Mapper matches instructions against a keyword table.
type Mapper struct {
	entries []Entry
}

var robotPattern = regexp.MustCompile(`\br([1-9])\b`)

// LoadTable decodes a YAML keyword table.
func LoadTable(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode instruction table: %w", err)
	}
	for i, e := range entries {
		if e.Action == "" || len(e.Keywords) == 0 {
			return nil, fmt.Errorf("instruction table entry %d: action and keywords are required", i)
		}
	}
	return entries, nil
}

// NewMapper creates a mapper over entries, matched in order.
func NewMapper(entries []Entry) *Mapper {
	return &Mapper{entries: entries}
}

// Default returns a mapper over the built-in table.
func Default() *Mapper {
	entries, err := LoadTable(bytes.NewReader(defaultTable))
	if err != nil {
		panic(err)
	}
	return NewMapper(entries)
}

// Entries returns the table rows in match order.
func (m *Mapper) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// Parse maps text to a task. The first table entry with a keyword contained
// in the lower-cased text wins. Robots are referenced as R1 to R9; when the
// action takes a target and none is named, the entry default applies.
func (m *Mapper) Parse(text string) (*Task, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))

	for _, e := range m.entries {
		if !matches(normalized, e.Keywords) {
			continue
		}

		task := &Task{
			Instruction: text,
			Action:      e.Action,
			Tasks:       append([]string(nil), e.Tasks...),
			Params:      map[string]string{},
		}
		if e.takes(ParamTargetRobot) {
			target := e.DefaultTarget
			if found := robotPattern.FindStringSubmatch(normalized); found != nil {
				target = "R" + found[1]
			}
			if target != "" {
				task.Params[ParamTargetRobot] = target
			}
		}
		task.Description = describe(e.Description, task.Params)
		return task, nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrUnrecognizedInstruction, text)
}

// Parse maps text with the built-in table.
func Parse(text string) (*Task, error) {
	return Default().Parse(text)
}

func matches(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

func describe(template string, params map[string]string) string {
	out := template
	for k, v := range params {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}
