package main

import "grocerydash/internal/command"

func main() {
	command.Execute()
}
