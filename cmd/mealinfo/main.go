package main

import (
	"os"

	mealinfo "github.com/neismeal/mealinfo"
)

func main() {
	os.Exit(mealinfo.Run(os.Args, os.Stdout))
}
