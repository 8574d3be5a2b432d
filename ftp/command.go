package ftp

import (
	"strings"
)

// Command is one parsed line of the control channel.
// Argument is everything after the first space and may contain spaces itself.
type Command struct {
	Verb     string
	Argument string
}

// ParseCommand parses a line from the client into its verb and argument.
func ParseCommand(line string) Command {
	line = strings.TrimRight(line, "\r\n")
	verb, arg, _ := strings.Cut(line, " ")
	return Command{Verb: strings.TrimSpace(verb), Argument: arg}
}

// Name returns the verb in upper case, verbs are case insensitive
func (c Command) Name() string {
	return strings.ToUpper(c.Verb)
}

func (c Command) String() string {
	if c.Argument == "" {
		return c.Verb
	}
	return c.Verb + " " + c.Argument
}
