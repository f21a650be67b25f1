package main

import "pollex.nl/bookshelf/internal/commands"

func main() {
	commands.Execute()
}
