package main

import "github.com/ssargent/dbckit/cmd/dbckit/cmd"

func main() {
	cmd.Execute()
}
