package main

import "github.com/OpenTraceLab/OpenTraceSketch/cmd/sketch/cmd"

func main() {
	cmd.Execute()
}
