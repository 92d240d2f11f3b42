package main

import "lu-estilo/cmd/salesctl/commands"

func main() {
	commands.Execute()
}
