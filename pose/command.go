package pose

// Command is one discrete mutation of a State.
type Command uint8

const (
	CommandNone Command = iota
	TranslateUp
	TranslateDown
	TranslateLeft
	TranslateRight
	RotateCCW
	RotateCW
	ScaleUp
	ScaleDown
)

var commandNames = [...]string{
	CommandNone:    "none",
	TranslateUp:    "translate-up",
	TranslateDown:  "translate-down",
	TranslateLeft:  "translate-left",
	TranslateRight: "translate-right",
	RotateCCW:      "rotate-ccw",
	RotateCW:       "rotate-cw",
	ScaleUp:        "scale-up",
	ScaleDown:      "scale-down",
}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return "unknown"
}

// ParseCommand returns the command named s.
func ParseCommand(s string) (Command, bool) {
	for i, name := range commandNames {
		if i != int(CommandNone) && name == s {
			return Command(i), true
		}
	}
	return CommandNone, false
}

// Apply runs c against the state immediately. It reports whether c was a
// known mutation; unknown commands leave the pose untouched.
func (s *State) Apply(c Command) bool {
	switch c {
	case TranslateUp:
		s.Translate(0, 1)
	case TranslateDown:
		s.Translate(0, -1)
	case TranslateLeft:
		s.Translate(-1, 0)
	case TranslateRight:
		s.Translate(1, 0)
	case RotateCCW:
		s.Rotate(1)
	case RotateCW:
		s.Rotate(-1)
	case ScaleUp:
		s.ScaleUp()
	case ScaleDown:
		s.ScaleDown()
	default:
		return false
	}
	return true
}
