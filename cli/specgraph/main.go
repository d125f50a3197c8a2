package main

import (
	"os"

	specgraphcmder "github.com/papercomputeco/specgraph/cmd/specgraph"
)

func main() {
	cmd := specgraphcmder.NewSpecgraphCmd()
	if err := specgraphcmder.Execute(cmd, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
