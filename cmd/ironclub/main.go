package main

import "github.com/cduffy/ironclub/cmd/ironclub/cmd"

func main() {
	cmd.Execute()
}
