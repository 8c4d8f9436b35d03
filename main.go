package main

import "weatherstack/internal/cli"

func main() {
	cli.Execute()
}
