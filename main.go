package main

import "github.com/tanq16/tunequeue/cmd"

func main() {
	cmd.Execute()
}
