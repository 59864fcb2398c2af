package console

import (
	"fmt"
	"strings"
)

var helpTopics = map[string]string{
	VerbCreate:  "Creates a new instance of a class, saves it and prints its id.\n  Usage: create <class>",
	VerbShow:    "Prints the string representation of an instance.\n  Usage: show <class> <id> | <class>.show(<id>)",
	VerbDestroy: "Deletes an instance and saves the change.\n  Usage: destroy <class> <id> | <class>.destroy(<id>)",
	VerbAll:     "Prints all instances, or all instances of one class.\n  Usage: all [<class>] | <class>.all()",
	VerbCount:   "Prints the number of instances of a class.\n  Usage: count <class> | <class>.count()",
	VerbUpdate:  "Sets one attribute of an instance and saves it.\n  Usage: update <class> <id> <attribute> \"<value>\"\n         <class>.update(<id>, <attribute>, <value>)\n         <class>.update(<id>, {\"<attribute>\": \"<value>\", ...})",
	VerbQuit:    "Quit command to exit the program",
	VerbEOF:     "EOF command to exit the program",
	VerbHelp:    "List available commands with \"help\" or detailed help with \"help <command>\".",
}

var helpOrder = []string{VerbEOF, VerbAll, VerbCount, VerbCreate, VerbDestroy, VerbHelp, VerbQuit, VerbShow, VerbUpdate}

func (i *Interpreter) help(cmd Command) {
	topic, ok := cmd.Arg(0)
	if !ok {
		const header = "Documented commands (type help <topic>):"
		_, _ = fmt.Fprintln(i.out)
		_, _ = fmt.Fprintln(i.out, header)
		_, _ = fmt.Fprintln(i.out, strings.Repeat("=", len(header)))
		_, _ = fmt.Fprintln(i.out, strings.Join(helpOrder, "  "))
		_, _ = fmt.Fprintln(i.out)
		return
	}

	text, ok := helpTopics[topic]
	if !ok {
		_, _ = fmt.Fprintf(i.out, "*** No help on %s\n", topic)
		return
	}
	_, _ = fmt.Fprintln(i.out, text)
}
