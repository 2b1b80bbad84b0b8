package main

import "github.com/adminradio/perspective/cmd"

func main() {
	cmd.Execute()
}
