package main

import "localmind/cmd"

func main() {
	cmd.Execute()
}
