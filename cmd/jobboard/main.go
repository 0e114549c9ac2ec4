package main

import "github.com/MrSnakeDoc/jobboard/internal/cli"

func main() {
	cli.Execute()
}
