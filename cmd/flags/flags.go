// Package flags holds the CLI flags shared by walletctl subcommands.
package flags

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/sealpact/walletcore/common"
)

// SetupLogger builds the process logger from the logging flags, with
// environment defaults applied underneath.
func SetupLogger(cCtx *cli.Context, cfg *common.Config) *slog.Logger {
	logJSON := cfg.LogJSON || cCtx.Bool(LogJSONFlag.Name)
	logDebug := cfg.LogDebug || cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUIDFlag.Name)

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: common.PackageName,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

var AddressFlag = &cli.StringFlag{
	Name:  "address",
	Usage: "wallet address the artifact is keyed by, hex string",
}

var PasswordFlag = &cli.StringFlag{
	Name:    "password",
	Usage:   "wallet password; prefer WALLETCORE_PASSWORD or the interactive prompt",
	EnvVars: []string{"WALLETCORE_PASSWORD"},
}

var LevelFlag = &cli.StringFlag{
	Name:  "level",
	Usage: "security level: standard, enhanced or maximum",
}

var StorageFlag = &cli.StringSliceFlag{
	Name:  "storage",
	Usage: "storage location URI (file://, s3://, vault://, ipfs://); repeat for redundant storage",
}

var CarrierFlag = &cli.StringFlag{
	Name:  "carrier",
	Usage: "path to a PNG to use as the steganography carrier instead of a generated one",
}

var OutputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "write the result to this file instead of stdout",
}

var LogJSONFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}

var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}

var LogUIDFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var CommonFlags = []cli.Flag{
	LogJSONFlag,
	LogDebugFlag,
	LogUIDFlag,
}
