package main

import "goeq/cmd"

func main() {
	cmd.Execute()
}
