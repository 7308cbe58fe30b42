package main

import "github.com/xuganyu96/tlswire/cmd/recdump/cmd"

func main() {
	cmd.Execute()
}
