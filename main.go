package main

import (
	"github.com/lehigh-university-libraries/valuegraph/cmd"
)

func main() {
	cmd.Execute()
}
