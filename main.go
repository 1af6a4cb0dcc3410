package main

import "github.com/lukman83/martdash/cmd"

func main() {
	cmd.Execute()
}
