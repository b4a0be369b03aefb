package main

import "focusd/cmd/focusd/commands"

func main() {
	commands.Execute()
}
