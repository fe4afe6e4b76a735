package main

import (
	"github.com/lehigh-university-libraries/hepbib/cmd"
)

func main() {
	cmd.Execute()
}
