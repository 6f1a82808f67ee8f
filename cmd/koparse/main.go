package main

import (
	"os"

	"github.com/tektoncd/koparse/pkg/exitcodes"
)

func main() {
	os.Exit(exitcodes.CodeFor(Execute()))
}
