package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/streakd/internal/model"
)

type Type string

const (
	TypeDone    Type = "done"
	TypeUndo    Type = "undo"
	TypeInc     Type = "inc"
	TypeDec     Type = "dec"
	TypeDismiss Type = "dismiss"
	TypeHabit   Type = "habit"
	TypeTask    Type = "task"
	TypeDelete  Type = "delete"
	TypeQuiet   Type = "quiet"
	TypeSound   Type = "sound"
	TypeExport  Type = "export"
	TypeImport  Type = "import"
	TypeRecalc  Type = "recalc"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// TargetArgs names one item. Kind is empty when the user gave a bare id;
// ids are unique across habits and tasks so the handler can resolve it.
type TargetArgs struct {
	Kind model.ItemKind
	ID   int64
}

type AmountArgs struct {
	ID    int64
	Units int
}

type HabitArgs struct {
	Name         string
	ReminderTime string
	Interval     int
	XP           int
	Target       int
	CategoryID   string
}

type TaskArgs struct {
	Name         string
	ReminderTime string
	Interval     int
	XP           int
}

// QuietArgs with Off set clears the window.
type QuietArgs struct {
	Off   bool
	Start string
	End   string
}

type ToggleArgs struct {
	On bool
}

type PathArgs struct {
	Path string
}

type Command struct {
	Type   Type
	Raw    string
	Target *TargetArgs
	Amount *AmountArgs
	Habit  *HabitArgs
	Task   *TaskArgs
	Quiet  *QuietArgs
	Toggle *ToggleArgs
	Path   *PathArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := Type(strings.ToLower(parts[0]))
	args := parts[1:]

	switch head {
	case TypeDone, TypeUndo, TypeDelete:
		target, err := parseTarget(head, args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: head, Raw: input, Target: &target}, nil
	case TypeInc, TypeDec:
		return parseAmount(input, head, args)
	case TypeDismiss, TypeRecalc:
		if len(args) != 0 {
			return Command{}, invalid("%s takes no arguments", head)
		}
		return Command{Type: head, Raw: input}, nil
	case TypeHabit:
		return parseHabit(input, args)
	case TypeTask:
		return parseTask(input, args)
	case TypeQuiet:
		return parseQuiet(input, args)
	case TypeSound:
		return parseSound(input, args)
	case TypeExport, TypeImport:
		if len(args) == 0 {
			return Command{}, invalid("%s requires a file path", head)
		}
		return Command{Type: head, Raw: input, Path: &PathArgs{Path: strings.Join(args, " ")}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseTarget accepts "12", "habit 12", "task:12".
func parseTarget(head Type, args []string) (TargetArgs, error) {
	switch len(args) {
	case 1:
		if kind, id, ok := strings.Cut(args[0], ":"); ok {
			return targetFrom(head, kind, id)
		}
		return targetFrom(head, "", args[0])
	case 2:
		return targetFrom(head, args[0], args[1])
	default:
		return TargetArgs{}, invalid("%s requires an item id", head)
	}
}

func targetFrom(head Type, kind, id string) (TargetArgs, error) {
	var out TargetArgs
	if kind != "" {
		k, err := model.ParseItemKind(kind)
		if err != nil {
			return TargetArgs{}, invalid("%s: unknown item kind %q", head, kind)
		}
		out.Kind = k
	}
	n, err := parseID(id)
	if err != nil {
		return TargetArgs{}, invalid("%s: %v", head, err)
	}
	out.ID = n
	return out, nil
}

func parseAmount(raw string, head Type, args []string) (Command, error) {
	if len(args) == 0 || len(args) > 2 {
		return Command{}, invalid("%s requires a habit id and optional amount", head)
	}
	id, err := parseID(args[0])
	if err != nil {
		return Command{}, invalid("%s: %v", head, err)
	}
	units := 1
	if len(args) == 2 {
		units, err = strconv.Atoi(args[1])
		if err != nil || units <= 0 || units > model.MaxAmount {
			return Command{}, invalid("%s: amount must be between 1 and %d", head, model.MaxAmount)
		}
	}
	return Command{Type: head, Raw: raw, Amount: &AmountArgs{ID: id, Units: units}}, nil
}

// options splits "name words key:value ..." into the free-text name and
// the recognized key:value options.
func options(args []string, keys ...string) (string, map[string]string) {
	known := make(map[string]bool, len(keys))
	for _, k := range keys {
		known[k] = true
	}
	opts := make(map[string]string)
	name := make([]string, 0, len(args))
	for _, arg := range args {
		if k, v, ok := strings.Cut(arg, ":"); ok && known[strings.ToLower(k)] {
			opts[strings.ToLower(k)] = v
			continue
		}
		name = append(name, arg)
	}
	return strings.Join(name, " "), opts
}

func intOption(head Type, opts map[string]string, key string) (int, error) {
	v, ok := opts[key]
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > model.MaxAmount {
		return 0, invalid("%s: %s must be between 0 and %d", head, key, model.MaxAmount)
	}
	return n, nil
}

func clockOption(head Type, opts map[string]string) (string, error) {
	v, ok := opts["at"]
	if !ok {
		return "", nil
	}
	m, err := model.ParseClockTime(v)
	if err != nil {
		return "", invalid("%s: at must be HH:MM", head)
	}
	return model.FormatClockTime(m), nil
}

func parseHabit(raw string, args []string) (Command, error) {
	name, opts := options(args, "at", "every", "xp", "target", "cat")
	if strings.TrimSpace(name) == "" {
		return Command{}, invalid("habit requires a name")
	}
	at, err := clockOption(TypeHabit, opts)
	if err != nil {
		return Command{}, err
	}
	out := HabitArgs{Name: name, ReminderTime: at, CategoryID: strings.ToLower(opts["cat"])}
	if out.Interval, err = intOption(TypeHabit, opts, "every"); err != nil {
		return Command{}, err
	}
	if out.XP, err = intOption(TypeHabit, opts, "xp"); err != nil {
		return Command{}, err
	}
	if out.Target, err = intOption(TypeHabit, opts, "target"); err != nil {
		return Command{}, err
	}
	return Command{Type: TypeHabit, Raw: raw, Habit: &out}, nil
}

func parseTask(raw string, args []string) (Command, error) {
	name, opts := options(args, "at", "every", "xp")
	if strings.TrimSpace(name) == "" {
		return Command{}, invalid("task requires a name")
	}
	at, err := clockOption(TypeTask, opts)
	if err != nil {
		return Command{}, err
	}
	out := TaskArgs{Name: name, ReminderTime: at}
	if out.Interval, err = intOption(TypeTask, opts, "every"); err != nil {
		return Command{}, err
	}
	if out.XP, err = intOption(TypeTask, opts, "xp"); err != nil {
		return Command{}, err
	}
	return Command{Type: TypeTask, Raw: raw, Task: &out}, nil
}

func parseQuiet(raw string, args []string) (Command, error) {
	if len(args) == 1 && strings.EqualFold(args[0], "off") {
		return Command{Type: TypeQuiet, Raw: raw, Quiet: &QuietArgs{Off: true}}, nil
	}
	if len(args) != 2 {
		return Command{}, invalid("quiet requires start and end (HH:MM HH:MM) or off")
	}
	for _, a := range args {
		if _, err := model.ParseClockTime(a); err != nil {
			return Command{}, invalid("quiet: %q is not HH:MM", a)
		}
	}
	return Command{Type: TypeQuiet, Raw: raw, Quiet: &QuietArgs{Start: args[0], End: args[1]}}, nil
}

func parseSound(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("sound requires on or off")
	}
	switch strings.ToLower(args[0]) {
	case "on":
		return Command{Type: TypeSound, Raw: raw, Toggle: &ToggleArgs{On: true}}, nil
	case "off":
		return Command{Type: TypeSound, Raw: raw, Toggle: &ToggleArgs{On: false}}, nil
	default:
		return Command{}, invalid("sound requires on or off")
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(raw, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", raw)
	}
	return id, nil
}
