package main

import "github.com/markb/shoplite/cmd"

func main() {
	cmd.Execute()
}
