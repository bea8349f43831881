package main

import "github.com/mpapenbr/go-racehud/cmd"

func main() {
	cmd.Execute()
}
