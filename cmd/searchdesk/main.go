package main

import "github.com/BradenHooton/searchdesk/cmd/searchdesk/commands"

func main() {
	commands.Execute()
}
