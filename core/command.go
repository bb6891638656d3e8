package core

// CommandHandler handles one received command line
type CommandHandler func(line string)

// CommandMatcher reports whether a command accepts the line
type CommandMatcher func(line string) bool

// Command is one entry of the command grammar
type Command struct {
	Name    string
	Help    string // Usage shown by "help"
	Match   CommandMatcher
	Handler CommandHandler
}

// CommandTable is an ordered command grammar. Lines are offered to the
// commands in registration order and the first match wins; lines nobody
// matches go to the fallback.
type CommandTable struct {
	commands []*Command
	fallback CommandHandler
}

// NewCommandTable creates an empty command table
func NewCommandTable() *CommandTable {
	return &CommandTable{}
}

// Register appends a command. Registering a name twice keeps the first.
func (t *CommandTable) Register(name, help string, match CommandMatcher, handler CommandHandler) {
	if _, exists := t.Lookup(name); exists {
		return
	}
	t.commands = append(t.commands, &Command{
		Name:    name,
		Help:    help,
		Match:   match,
		Handler: handler,
	})
}

// SetFallback sets the handler for unmatched lines
func (t *CommandTable) SetFallback(handler CommandHandler) {
	t.fallback = handler
}

// Lookup retrieves a command by name
func (t *CommandTable) Lookup(name string) (*Command, bool) {
	for _, cmd := range t.commands {
		if cmd.Name == name {
			return cmd, true
		}
	}
	return nil, false
}

// Count returns the number of registered commands
func (t *CommandTable) Count() int {
	return len(t.commands)
}

// Usage returns the help strings in grammar order, space separated
func (t *CommandTable) Usage() string {
	usage := ""
	for i, cmd := range t.commands {
		if i > 0 {
			usage += " "
		}
		usage += cmd.Help
	}
	return usage
}

// Dispatch runs the first matching command and reports whether one matched
func (t *CommandTable) Dispatch(line string) bool {
	for _, cmd := range t.commands {
		if cmd.Match(line) {
			cmd.Handler(line)
			return true
		}
	}
	if t.fallback != nil {
		t.fallback(line)
	}
	return false
}

// Literal matches lines equal to word (case-sensitive)
func Literal(word string) CommandMatcher {
	return func(line string) bool {
		return line == word
	}
}
