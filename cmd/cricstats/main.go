package main

import "github.com/pfrederiksen/cricstats/internal/cli"

func main() {
	cli.Execute()
}
