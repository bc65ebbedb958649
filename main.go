package main

import "github.com/dyike/cortexdash/internal/cli"

func main() {
	cli.Run()
}
