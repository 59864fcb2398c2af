// Package console implements the hbnb command interpreter: the line parser
// for the classic ("verb Class id ...") and dotted ("Class.verb(args)")
// syntaxes, and the dispatcher that executes commands against storage.
//
// Dotted calls are rewritten into classic command text and parsed again, so
// both syntaxes share one validation path.
package console

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leapstack-labs/hbnb/internal/model"
)

// Command verbs.
const (
	VerbCreate  = "create"
	VerbShow    = "show"
	VerbDestroy = "destroy"
	VerbAll     = "all"
	VerbCount   = "count"
	VerbUpdate  = "update"
	VerbQuit    = "quit"
	VerbEOF     = "EOF"
	VerbHelp    = "help"
)

var classicVerbs = map[string]bool{
	VerbCreate:  true,
	VerbShow:    true,
	VerbDestroy: true,
	VerbAll:     true,
	VerbCount:   true,
	VerbUpdate:  true,
	VerbQuit:    true,
	VerbEOF:     true,
	VerbHelp:    true,
}

// Command is one normalized command.
type Command struct {
	Verb string
	// Args are the space-separated tokens after the verb; nil when there are none.
	Args []string
	// Line is the input line the command came from.
	Line string
}

// Arg returns the i-th argument and whether it was supplied.
func (c Command) Arg(i int) (string, bool) {
	if i < len(c.Args) {
		return c.Args[i], true
	}
	return "", false
}

// Parse turns one input line into the commands it stands for. A blank line
// or a dotted update with an empty JSON object yields no commands. A JSON
// update yields one update command per key.
func Parse(line string) ([]Command, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, nil
	}

	if cmd, ok := parseClassic(trimmed); ok {
		cmd.Line = line
		return []Command{cmd}, nil
	}

	if strings.Contains(trimmed, ".") {
		rewritten, err := rewriteDotted(trimmed)
		if err != nil {
			return nil, &UnknownSyntaxError{Line: trimmed}
		}
		cmds := make([]Command, 0, len(rewritten))
		for _, text := range rewritten {
			cmd, ok := parseClassic(text)
			if !ok {
				return nil, &UnknownSyntaxError{Line: trimmed}
			}
			cmd.Line = line
			cmds = append(cmds, cmd)
		}
		return cmds, nil
	}

	return nil, &UnknownSyntaxError{Line: trimmed}
}

// parseClassic splits a trimmed line into its leading identifier and the
// single-space separated remainder. ok is false for unknown verbs.
func parseClassic(line string) (Command, bool) {
	if strings.HasPrefix(line, "?") {
		line = VerbHelp + " " + line[1:]
	}

	i := 0
	for i < len(line) && isIdentChar(line[i]) {
		i++
	}
	verb := line[:i]
	if !classicVerbs[verb] {
		return Command{}, false
	}

	cmd := Command{Verb: verb}
	if rest := strings.TrimSpace(line[i:]); rest != "" {
		cmd.Args = strings.Split(rest, " ")
	}
	return cmd, true
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// rewriteDotted rewrites "Class.verb(args)" into classic command text.
func rewriteDotted(line string) ([]string, error) {
	dot := strings.Index(line, ".")
	class, call := line[:dot], line[dot+1:]

	open := strings.Index(call, "(")
	if open < 0 || !strings.HasSuffix(call, ")") {
		return nil, fmt.Errorf("malformed call %q", call)
	}
	verb := call[:open]
	args := call[open+1 : len(call)-1]

	switch verb {
	case VerbAll, VerbCount:
		return []string{verb + " " + class}, nil
	case VerbShow, VerbDestroy:
		return []string{strings.TrimSpace(verb + " " + class + " " + strings.ReplaceAll(args, `"`, ""))}, nil
	case VerbUpdate:
		return rewriteUpdate(class, args)
	default:
		return nil, fmt.Errorf("unknown method %q", verb)
	}
}

// rewriteUpdate handles both update argument forms: "id, {json}" and
// "id, name, value". The comma form splits on every comma.
func rewriteUpdate(class, args string) ([]string, error) {
	if brace := strings.Index(args, "{"); brace >= 0 {
		id := strings.ReplaceAll(args[:brace], ",", "")
		id = strings.ReplaceAll(strings.TrimSpace(id), `"`, "")

		updates := model.NewRecord()
		if err := json.Unmarshal([]byte(args[brace:]), updates); err != nil {
			return nil, fmt.Errorf("malformed update object: %w", err)
		}

		lines := make([]string, 0, updates.Len())
		for _, key := range updates.Keys() {
			v, _ := updates.Get(key)
			value, err := jsonValueText(v)
			if err != nil {
				return nil, err
			}
			lines = append(lines, strings.Join([]string{VerbUpdate, class, id, key, value}, " "))
		}
		return lines, nil
	}

	parts := strings.Split(args, ",")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(strings.TrimSpace(p), `"`, "")
	}
	return []string{strings.TrimSpace(VerbUpdate + " " + class + " " + strings.Join(parts, " "))}, nil
}

// jsonValueText renders a decoded JSON value the way it is typed on the
// classic command line: strings bare, everything else as JSON text.
func jsonValueText(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
