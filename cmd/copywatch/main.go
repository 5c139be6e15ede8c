package main

import "github.com/copywatch/copywatch/cmd"

func main() {
	cmd.Execute()
}
