package main

import "github.com/mcoot/rustdonate/internal/cli"

func main() {
	cli.Execute()
}
