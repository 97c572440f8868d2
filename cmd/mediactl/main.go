package main

import "github.com/prxssh/mediactl/internal/cli"

func main() {
	cli.Execute()
}
