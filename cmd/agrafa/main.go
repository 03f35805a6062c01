package main

import (
	"agrafa/cmd/agrafa/commands"
)

func main() {
	commands.ExecuteContext(commands.SignalContext())
}
