package main

import "github.com/pfrederiksen/racecard/internal/cli"

func main() {
	cli.Execute()
}
