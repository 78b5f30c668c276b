package main

import (
	"context"
	"os"

	"git.home.luguber.info/inful/malvolio/cmd/malvolio/commands"
)

func main() {
	os.Exit(commands.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
