package cli

import (
	"github.com/nwslgate/nwslgate/core/cli/cmd"
	"github.com/nwslgate/nwslgate/core/infrastructure/logging"
)

// Execute runs the CLI
func Execute() error {
	if err := cmd.Execute(); err != nil {
		logging.New("cli").Error(err.Error())
		return err
	}
	return nil
}
