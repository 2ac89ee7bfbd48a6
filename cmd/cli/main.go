package main

import "github.com/pat-analysis/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
