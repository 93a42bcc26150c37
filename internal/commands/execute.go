package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Done    func(TargetArgs) (Result, error)
	Undo    func(TargetArgs) (Result, error)
	Delete  func(TargetArgs) (Result, error)
	Inc     func(AmountArgs) (Result, error)
	Dec     func(AmountArgs) (Result, error)
	Dismiss func() (Result, error)
	Habit   func(HabitArgs) (Result, error)
	Task    func(TaskArgs) (Result, error)
	Quiet   func(QuietArgs) (Result, error)
	Sound   func(ToggleArgs) (Result, error)
	Export  func(PathArgs) (Result, error)
	Import  func(PathArgs) (Result, error)
	Recalc  func() (Result, error)
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Done(*cmd.Target)
	case TypeUndo:
		if handlers.Undo == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Undo(*cmd.Target)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Delete(*cmd.Target)
	case TypeInc:
		if handlers.Inc == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Inc(*cmd.Amount)
	case TypeDec:
		if handlers.Dec == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Dec(*cmd.Amount)
	case TypeDismiss:
		if handlers.Dismiss == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Dismiss()
	case TypeHabit:
		if handlers.Habit == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Habit(*cmd.Habit)
	case TypeTask:
		if handlers.Task == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Task(*cmd.Task)
	case TypeQuiet:
		if handlers.Quiet == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Quiet(*cmd.Quiet)
	case TypeSound:
		if handlers.Sound == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Sound(*cmd.Toggle)
	case TypeExport:
		if handlers.Export == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Export(*cmd.Path)
	case TypeImport:
		if handlers.Import == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Import(*cmd.Path)
	case TypeRecalc:
		if handlers.Recalc == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Recalc()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
