package main

import (
	"os"

	"github.com/Talieisin/mobileconfig-validator/internal/adapters/inbound/cli"
)

func main() {
	os.Exit(cli.ExitCode())
}
