package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/leapstack-labs/hbnb/internal/model"
)

// Gateway is the storage the interpreter works against.
type Gateway interface {
	New(m *model.Model)
	Find(class, id string) (*model.Model, bool)
	Delete(class, id string) bool
	Exists(class, id string) bool
	All() []*model.Model
	Save(ctx context.Context) error
}

// LineReader yields input lines. It returns io.EOF at end of input.
type LineReader interface {
	Readline() (string, error)
}

// Config holds the interpreter's collaborators.
type Config struct {
	Store  Gateway
	Out    io.Writer
	ErrOut io.Writer
	Logger *slog.Logger
}

// Interpreter executes console commands one line at a time.
type Interpreter struct {
	store  Gateway
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
}

// New creates an Interpreter. Out defaults to io.Discard, ErrOut to Out.
func New(cfg Config) *Interpreter {
	i := &Interpreter{
		store:  cfg.Store,
		out:    cfg.Out,
		errOut: cfg.ErrOut,
		logger: cfg.Logger,
	}
	if i.out == nil {
		i.out = io.Discard
	}
	if i.errOut == nil {
		i.errOut = i.out
	}
	if i.logger == nil {
		i.logger = slog.New(slog.DiscardHandler)
	}
	return i
}

// Run reads and executes lines until quit or end of input. End of input
// prints a newline first.
func (i *Interpreter) Run(ctx context.Context, r LineReader) error {
	for {
		line, err := r.Readline()
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(i.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if i.Execute(ctx, line) {
			return nil
		}
	}
}

// Execute runs one input line and reports whether the loop should stop.
// Failures are printed, never returned.
func (i *Interpreter) Execute(ctx context.Context, line string) bool {
	cmds, err := Parse(line)
	if err != nil {
		i.report(err)
		return false
	}

	for _, cmd := range cmds {
		stop, err := i.dispatch(ctx, cmd)
		if err != nil {
			i.report(err)
		}
		if stop {
			return true
		}
	}
	return false
}

func (i *Interpreter) report(err error) {
	if isUserError(err) {
		_, _ = fmt.Fprintln(i.out, err)
		return
	}
	i.logger.Error("command failed", slog.String("error", err.Error()))
	_, _ = fmt.Fprintf(i.errOut, "Error: %v\n", err)
}

func (i *Interpreter) dispatch(ctx context.Context, cmd Command) (bool, error) {
	i.logger.Debug("dispatch", slog.String("verb", cmd.Verb), slog.Any("args", cmd.Args))

	switch cmd.Verb {
	case VerbQuit:
		return true, nil
	case VerbEOF:
		_, _ = fmt.Fprintln(i.out)
		return true, nil
	case VerbHelp:
		i.help(cmd)
		return false, nil
	case VerbCreate:
		return false, i.create(ctx, cmd)
	case VerbShow:
		return false, i.show(cmd)
	case VerbDestroy:
		return false, i.destroy(ctx, cmd)
	case VerbAll:
		return false, i.all(cmd)
	case VerbCount:
		return false, i.count(cmd)
	case VerbUpdate:
		return false, i.update(ctx, cmd)
	default:
		return false, &UnknownSyntaxError{Line: cmd.Line}
	}
}

// requireClass validates the class argument.
func requireClass(cmd Command) (string, error) {
	class, ok := cmd.Arg(0)
	if !ok {
		return "", ErrClassNameMissing
	}
	if !model.IsClass(class) {
		return "", ErrClassNameUnknown
	}
	return class, nil
}

// requireInstance validates class and id, then looks the instance up.
func (i *Interpreter) requireInstance(cmd Command) (*model.Model, error) {
	class, err := requireClass(cmd)
	if err != nil {
		return nil, err
	}
	id, ok := cmd.Arg(1)
	if !ok {
		return nil, ErrInstanceIDMissing
	}
	m, ok := i.store.Find(class, id)
	if !ok {
		return nil, ErrInstanceNotFound
	}
	return m, nil
}

func (i *Interpreter) create(ctx context.Context, cmd Command) error {
	class, err := requireClass(cmd)
	if err != nil {
		return err
	}
	m, err := model.New(class)
	if err != nil {
		return err
	}
	i.store.New(m)
	_, _ = fmt.Fprintln(i.out, m.ID())
	return i.store.Save(ctx)
}

func (i *Interpreter) show(cmd Command) error {
	m, err := i.requireInstance(cmd)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(i.out, m)
	return nil
}

func (i *Interpreter) destroy(ctx context.Context, cmd Command) error {
	m, err := i.requireInstance(cmd)
	if err != nil {
		return err
	}
	i.store.Delete(m.ClassName(), cmd.Args[1])
	return i.store.Save(ctx)
}

// collect returns the rendered instances of the class named by the first
// argument, or of every class when there is none.
func (i *Interpreter) collect(cmd Command) ([]string, error) {
	class := ""
	if _, ok := cmd.Arg(0); ok {
		var err error
		if class, err = requireClass(cmd); err != nil {
			return nil, err
		}
	}

	out := []string{}
	for _, m := range i.store.All() {
		if class == "" || m.ClassName() == class {
			out = append(out, m.String())
		}
	}
	return out, nil
}

func (i *Interpreter) all(cmd Command) error {
	rendered, err := i.collect(cmd)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(i.out, formatList(rendered))
	return nil
}

func (i *Interpreter) count(cmd Command) error {
	rendered, err := i.collect(cmd)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(i.out, len(rendered))
	return nil
}

func (i *Interpreter) update(ctx context.Context, cmd Command) error {
	m, err := i.requireInstance(cmd)
	if err != nil {
		return err
	}
	name, ok := cmd.Arg(2)
	if !ok {
		return ErrAttributeNameMissing
	}
	value, ok := cmd.Arg(3)
	if !ok {
		return ErrAttributeValueMissing
	}

	value = strings.NewReplacer(`"`, "", "'", "").Replace(value)
	if name == model.FieldID && value != m.ID() && i.store.Exists(m.ClassName(), value) {
		return ErrInstanceIDTaken
	}
	m.Set(name, value)
	return i.store.Save(ctx)
}

// formatList renders strings as a bracketed, comma separated list of
// double-quoted items.
func formatList(items []string) string {
	quoted := make([]string, len(items))
	for idx, s := range items {
		quoted[idx] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
