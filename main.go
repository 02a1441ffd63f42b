package main

import "github.com/kozaktomas/timebooth/cmd"

func main() {
	cmd.Execute()
}
