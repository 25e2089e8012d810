package main

import "github.com/ingyamilmolinar/rangeslider/cmd/rangeslider/commands"

func main() {
	commands.Execute()
}
