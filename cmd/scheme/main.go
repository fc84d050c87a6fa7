package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/temirov/scheme/internal/cli"
	"github.com/temirov/scheme/internal/utils"
)

const verboseEnvironmentVariable = "SCHEME_VERBOSE"

// main is the entry point for the scheme command.
func main() {
	verbose := strings.TrimSpace(os.Getenv(verboseEnvironmentVariable)) != ""
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(verbose)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
