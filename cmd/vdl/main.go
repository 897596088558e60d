package main

import (
	"os"

	"github.com/guiyumin/vdl/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
