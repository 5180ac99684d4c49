package main

import (
	"github.com/user/normtree/cmd"
	"github.com/user/normtree/pkg/config"
	"github.com/user/normtree/pkg/logging"
)

func main() {
	// Load .env file if it exists
	if err := config.LoadEnvFile(".env"); err != nil {
		logging.Warnf("could not read .env: %v", err)
	}
	cmd.Execute()
}
