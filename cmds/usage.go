package cmds

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
)

func (p *Executor) PrintUsage() {
	printCommands(p.commands, 0)
}

func printCommands(commands map[string]*Command, indent int) {
	names := slices.Sorted(maps.Keys(commands))
	printed := make(map[*Command]bool)
	for _, name := range names {
		command := commands[name]
		if printed[command] {
			continue
		}
		printed[command] = true

		parts := []string{name}
		parts = append(parts, command.Aliases...)
		fmt.Fprintf(os.Stderr, "%s%s",
			strings.Repeat("  ", indent),
			strings.Join(parts, " | "),
		)
		if command.Description != "" {
			fmt.Fprintf(os.Stderr, "\t%s", command.Description)
		}
		fmt.Fprintln(os.Stderr)

		if len(command.Subs) > 0 {
			printCommands(command.Subs, indent+1)
		}
	}
}
