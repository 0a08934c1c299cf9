// Command chatull is the terminal client for the ChatULL assistant.
package main

import "github.com/diogo/chatull/internal/commands"

func main() {
	commands.Execute()
}
