package main

import "risk-tracker/internal/cli"

func main() {
	cli.Execute()
}
