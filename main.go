package main

import "github.com/lepinkainen/bookcall/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
