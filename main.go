package main

import "github.com/hydraops/sysaudit/cmd"

func main() {
	cmd.Execute()
}
