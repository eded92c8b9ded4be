package main

import "github.com/opc-tools/opcdiag/cli/cmd"

func main() {
	cmd.Execute()
}
