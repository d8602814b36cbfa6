package dat

import (
	"fmt"
	"regexp"
	"strings"
)

// file script.go parses the script section. The script grammar has three
// line shapes: variable declarations (`type name=value`), event chain
// declarations (`Name::`), and command or trigger lines. Only structural
// information is extracted here; execution semantics are out of scope, but
// every name reference is recorded with its line so reference resolution can
// be checked later.

// Variable is one declared script variable.
type Variable struct {
	// Type is the declared type keyword, e.g. "int".
	Type string

	// Name is the declared identifier.
	Name string

	// Value is the raw initializer text, or "" if none was given.
	Value string

	// Line is the 0-based absolute source line of the declaration.
	Line int
}

// Command is one command invocation inside an event chain. Parameters are
// kept as raw text; interpreting them is the game's business, not ours.
type Command struct {
	Name   string
	Params string
	Line   int
}

// EventChain is a named, ordered sequence of commands.
type EventChain struct {
	Name     string
	Commands []Command
	Line     int
}

// Trigger is a `when(...)` or `if(...)` line arming an event chain.
type Trigger struct {
	// Kind is "when" or "if".
	Kind string

	// Condition is the raw text inside the parentheses.
	Condition string

	// Target is the event chain name inside the brackets, or "" if the
	// trigger had no target.
	Target string

	Line int
}

// EventRef is one place an event chain name is referenced, either as a
// trigger target or as a bare call from inside another chain.
type EventRef struct {
	Name string
	Line int

	// Call is true for bare in-chain calls, false for trigger targets.
	Call bool
}

// VarRef is one place a script variable name is used.
type VarRef struct {
	Name string
	Line int
}

// Script is the structural model of a script section.
type Script struct {
	// Variables holds declarations in declaration order.
	Variables []Variable

	// Events holds chains in declaration order.
	Events []EventChain

	// Triggers holds the when/if lines in source order.
	Triggers []Trigger

	// EventRefs holds every reference to an event chain name.
	EventRefs []EventRef

	// VarRefs holds every use of a variable name, in source order.
	VarRefs []VarRef
}

// Variable returns the declaration of the named variable, or nil if the name
// was never declared.
func (sc *Script) Variable(name string) *Variable {
	for i := range sc.Variables {
		if sc.Variables[i].Name == name {
			return &sc.Variables[i]
		}
	}
	return nil
}

// Event returns the first declaration of the named chain, or nil.
func (sc *Script) Event(name string) *EventChain {
	for i := range sc.Events {
		if sc.Events[i].Name == name {
			return &sc.Events[i]
		}
	}
	return nil
}

// variableTypes are the recognized declaration type keywords.
var variableTypes = map[string]bool{
	"int":      true,
	"float":    true,
	"string":   true,
	"bool":     true,
	"miner":    true,
	"vehicle":  true,
	"building": true,
	"arrow":    true,
	"timer":    true,
	"intarray": true,
}

// builtinCommands are command names provided by the engine. A bare in-chain
// line whose name is not one of these is a call to another event chain.
var builtinCommands = map[string]bool{
	"msg": true, "win": true, "lose": true, "wait": true, "truewait": true,
	"pan": true, "shake": true, "drill": true, "place": true, "emerge": true,
	"sound": true, "crystals": true, "ore": true, "air": true, "heal": true,
	"reset": true, "pause": true, "unpause": true, "speed": true,
	"resume": true, "disable": true, "enable": true, "spawncap": true,
	"spawnwave": true, "starve": true, "landslide": true, "highlight": true,
}

// builtinMacros are value names the engine provides; they look like variable
// uses in conditions but are never declared.
var builtinMacros = map[string]bool{
	"crystals": true, "ore": true, "studs": true, "air": true, "time": true,
	"miners": true, "vehicles": true, "buildings": true, "creatures": true,
	"erosion": true, "true": true, "false": true,
}

var (
	chainDeclRegexp = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)::$`)
	triggerRegexp   = regexp.MustCompile(`^(when|if)\s*\(([^)]*)\)\s*(?:\[([A-Za-z_][A-Za-z0-9_]*)\])?\s*;?$`)
	varDeclRegexp   = regexp.MustCompile(`^([a-z]+)\s+([A-Za-z_][A-Za-z0-9_]*)\s*(?:=\s*(.*?))?\s*;?$`)
	commandRegexp   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*(?::\s*(.*?))?\s*;?$`)
	identRegexp     = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
)

func parseScript(sec *Section) (*Script, []Issue) {
	sc := &Script{}
	var issues []Issue

	var cur *EventChain

	for rel, rawLine := range sec.Lines() {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		abs := sec.AbsLine(rel)

		if m := chainDeclRegexp.FindStringSubmatch(line); m != nil {
			if cur != nil {
				sc.Events = append(sc.Events, *cur)
			}
			cur = &EventChain{Name: m[1], Line: abs}
			continue
		}

		if m := triggerRegexp.FindStringSubmatch(line); m != nil {
			tr := Trigger{Kind: m[1], Condition: strings.TrimSpace(m[2]), Target: m[3], Line: abs}
			sc.Triggers = append(sc.Triggers, tr)
			if tr.Target != "" {
				sc.EventRefs = append(sc.EventRefs, EventRef{Name: tr.Target, Line: abs})
			}
			sc.recordConditionVars(tr.Condition, abs)
			continue
		}

		if m := varDeclRegexp.FindStringSubmatch(line); m != nil && variableTypes[m[1]] {
			sc.Variables = append(sc.Variables, Variable{
				Type:  m[1],
				Name:  m[2],
				Value: m[3],
				Line:  abs,
			})
			continue
		}

		if cur == nil {
			issues = append(issues, Issue{
				Kind:       KindBadLine,
				Section:    sec.Name,
				Line:       abs,
				Col:        leadingSpace(rawLine),
				Message:    fmt.Sprintf("script line is outside any event chain: %q", line),
				sourceLine: rawLine,
			})
			continue
		}

		m := commandRegexp.FindStringSubmatch(line)
		if m == nil {
			issues = append(issues, Issue{
				Kind:       KindBadLine,
				Section:    sec.Name,
				Line:       abs,
				Col:        leadingSpace(rawLine),
				Message:    fmt.Sprintf("unreadable script command: %q", line),
				sourceLine: rawLine,
			})
			continue
		}

		cmd := Command{Name: m[1], Params: m[2], Line: abs}
		cur.Commands = append(cur.Commands, cmd)

		if cmd.Params == "" && !builtinCommands[strings.ToLower(cmd.Name)] {
			// bare non-builtin command is a call to another chain
			sc.EventRefs = append(sc.EventRefs, EventRef{Name: cmd.Name, Line: abs, Call: true})
		} else if cmd.Params != "" {
			sc.recordConditionVars(cmd.Params, abs)
		}
	}

	if cur != nil {
		sc.Events = append(sc.Events, *cur)
	}

	return sc, issues
}

// recordConditionVars pulls variable uses out of a condition or parameter
// expression.
func (sc *Script) recordConditionVars(expr string, line int) {
	for _, ident := range ConditionIdentifiers(expr) {
		sc.VarRefs = append(sc.VarRefs, VarRef{Name: ident, Line: line})
	}
}

// ConditionIdentifiers returns the variable names a condition expression
// refers to. Only comparison-style expressions carry variable references;
// event-style conditions like `enter:5,5` name trigger kinds, not variables.
// Engine-provided macro names are excluded.
func ConditionIdentifiers(expr string) []string {
	if !strings.ContainsAny(expr, "<>=") {
		return nil
	}

	var out []string
	for _, ident := range identRegexp.FindAllString(expr, -1) {
		if builtinMacros[strings.ToLower(ident)] {
			continue
		}
		out = append(out, ident)
	}
	return out
}
