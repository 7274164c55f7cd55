package main

import "github.com/xvierd/chorebook/cmd"

func main() {
	cmd.Execute()
}
