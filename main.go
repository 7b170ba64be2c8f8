package main

import "distlint/cmd"

func main() {
	cmd.Execute()
}
