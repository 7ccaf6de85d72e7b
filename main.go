package main

import "github.com/ellavondegurechaff/asae/cmd"

func main() {
	cmd.Execute()
}
