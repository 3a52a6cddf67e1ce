package main

import "github.com/avalonia-tools/avalint/cmd"

func main() {
	cmd.Execute()
}
