// walletctl manages protected wallet artifacts: it generates wallet
// material, protects it at a chosen security level, and recovers, upgrades
// or inspects stored artifacts.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/sealpact/walletcore/cmd/flags"
	"github.com/sealpact/walletcore/common"
	"github.com/sealpact/walletcore/interfaces"
	"github.com/sealpact/walletcore/security"
	"github.com/sealpact/walletcore/storage"
	"github.com/sealpact/walletcore/walletgen"
)

var flagSecretFile = &cli.StringFlag{
	Name:  "secret-file",
	Usage: "path to the wallet secret JSON; '-' reads stdin",
	Value: "-",
}

var flagQROutput = &cli.StringFlag{
	Name:  "qr",
	Usage: "also write the wallet address as a PNG QR code to this path",
}

func main() {
	app := &cli.App{
		Name:  "walletctl",
		Usage: "protect and recover wallet secrets",
		Flags: flags.CommonFlags,
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "generate fresh wallet material",
				Flags:  []cli.Flag{flags.OutputFlag, flagQROutput},
				Action: runGenerate,
			},
			{
				Name:  "protect",
				Usage: "protect a wallet secret at the chosen security level",
				Flags: []cli.Flag{
					flagSecretFile,
					flags.PasswordFlag,
					flags.LevelFlag,
					flags.StorageFlag,
					flags.CarrierFlag,
					flags.OutputFlag,
				},
				Action: runProtect,
			},
			{
				Name:  "recover",
				Usage: "recover a wallet secret from its stored artifact",
				Flags: []cli.Flag{
					flags.AddressFlag,
					flags.PasswordFlag,
					flags.StorageFlag,
					flags.OutputFlag,
				},
				Action: runRecover,
			},
			{
				Name:  "upgrade",
				Usage: "re-protect a stored artifact at a different security level",
				Flags: []cli.Flag{
					flags.AddressFlag,
					flags.PasswordFlag,
					flags.LevelFlag,
					flags.StorageFlag,
					flags.CarrierFlag,
				},
				Action: runUpgrade,
			},
			{
				Name:  "inspect",
				Usage: "show artifact metadata without touching secret material",
				Flags: []cli.Flag{
					flags.AddressFlag,
					flags.StorageFlag,
				},
				Action: runInspect,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runGenerate(cCtx *cli.Context) error {
	secret, err := walletgen.Generate()
	if err != nil {
		return err
	}

	if qrPath := cCtx.String(flagQROutput.Name); qrPath != "" {
		addr, err := interfaces.NewWalletAddress(secret.WalletAddress)
		if err != nil {
			return err
		}
		qr, err := walletgen.AddressQR(addr, 0)
		if err != nil {
			return err
		}
		if err := os.WriteFile(qrPath, qr, 0o644); err != nil {
			return fmt.Errorf("failed to write QR code: %w", err)
		}
	}

	return writeJSON(cCtx, secret)
}

func runProtect(cCtx *cli.Context) error {
	cfg, logger, err := setup(cCtx)
	if err != nil {
		return err
	}

	secret, err := readSecret(cCtx.String(flagSecretFile.Name))
	if err != nil {
		return err
	}
	password, err := resolvePassword(cCtx, cfg)
	if err != nil {
		return err
	}
	level, err := resolveLevel(cCtx, cfg)
	if err != nil {
		return err
	}
	manager, err := buildManager(cCtx, cfg, logger)
	if err != nil {
		return err
	}
	opts, err := protectOptions(cCtx)
	if err != nil {
		return err
	}

	artifact, err := manager.Protect(cCtx.Context, secret, password, level, opts)
	if err != nil {
		return err
	}

	return writeJSON(cCtx, protectReport(artifact))
}

func runRecover(cCtx *cli.Context) error {
	cfg, logger, err := setup(cCtx)
	if err != nil {
		return err
	}

	address, err := interfaces.NewWalletAddress(cCtx.String(flags.AddressFlag.Name))
	if err != nil {
		return err
	}
	password, err := resolvePassword(cCtx, cfg)
	if err != nil {
		return err
	}
	manager, err := buildManager(cCtx, cfg, logger)
	if err != nil {
		return err
	}

	secret, err := manager.Recover(cCtx.Context, address, password)
	if err != nil {
		return err
	}

	return writeJSON(cCtx, secret)
}

func runUpgrade(cCtx *cli.Context) error {
	cfg, logger, err := setup(cCtx)
	if err != nil {
		return err
	}

	address, err := interfaces.NewWalletAddress(cCtx.String(flags.AddressFlag.Name))
	if err != nil {
		return err
	}
	password, err := resolvePassword(cCtx, cfg)
	if err != nil {
		return err
	}
	level, err := resolveLevel(cCtx, cfg)
	if err != nil {
		return err
	}
	manager, err := buildManager(cCtx, cfg, logger)
	if err != nil {
		return err
	}
	opts, err := protectOptions(cCtx)
	if err != nil {
		return err
	}

	artifact, err := manager.Upgrade(cCtx.Context, address, password, level, opts)
	if err != nil {
		return err
	}

	return writeJSON(cCtx, protectReport(artifact))
}

func runInspect(cCtx *cli.Context) error {
	cfg, logger, err := setup(cCtx)
	if err != nil {
		return err
	}

	address, err := interfaces.NewWalletAddress(cCtx.String(flags.AddressFlag.Name))
	if err != nil {
		return err
	}
	store, err := buildStorage(cCtx, cfg, logger)
	if err != nil {
		return err
	}

	artifact, err := store.Fetch(cCtx.Context, address)
	if err != nil {
		return err
	}

	report := map[string]any{
		"address":    artifact.Address,
		"externalId": artifact.ExternalID,
		"level":      artifact.Level.String(),
		"createdAt":  artifact.CreatedAt,
	}
	if artifact.FallbackReason != "" {
		report["fallbackReason"] = artifact.FallbackReason
	}
	return writeJSON(cCtx, report)
}

func setup(cCtx *cli.Context) (*common.Config, *slog.Logger, error) {
	cfg, err := common.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, flags.SetupLogger(cCtx, cfg), nil
}

func buildStorage(cCtx *cli.Context, cfg *common.Config, logger *slog.Logger) (interfaces.ArtifactStorage, error) {
	uris := cCtx.StringSlice(flags.StorageFlag.Name)
	if len(uris) == 0 {
		uris = cfg.StorageURIs
	}
	return storage.NewFactory(logger).MultiBackendFor(uris)
}

func buildManager(cCtx *cli.Context, cfg *common.Config, logger *slog.Logger) (*security.Manager, error) {
	store, err := buildStorage(cCtx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return security.NewManager(&security.ManagerConfig{
		Storage: store,
		Log:     logger,
	}), nil
}

func protectOptions(cCtx *cli.Context) (*security.ProtectOptions, error) {
	carrierPath := cCtx.String(flags.CarrierFlag.Name)
	if carrierPath == "" {
		return nil, nil
	}
	carrier, err := loadCarrier(carrierPath)
	if err != nil {
		return nil, err
	}
	return &security.ProtectOptions{Carrier: carrier}, nil
}

func loadCarrier(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open carrier image: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode carrier PNG: %w", err)
	}
	return img, nil
}

func resolveLevel(cCtx *cli.Context, cfg *common.Config) (interfaces.SecurityLevel, error) {
	name := cCtx.String(flags.LevelFlag.Name)
	if name == "" {
		name = cfg.Level
	}
	return interfaces.ParseSecurityLevel(name)
}

// resolvePassword takes the password from the flag or environment, falling
// back to an interactive no-echo prompt. The password never appears in logs.
func resolvePassword(cCtx *cli.Context, cfg *common.Config) (string, error) {
	if password := cCtx.String(flags.PasswordFlag.Name); password != "" {
		return password, nil
	}
	if cfg.Password != "" {
		return cfg.Password, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("no password given: set --password, WALLETCORE_PASSWORD, or run interactively")
	}
	fmt.Fprint(os.Stderr, "Enter wallet password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(raw), nil
}

func readSecret(path string) (interfaces.WalletSecret, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return interfaces.WalletSecret{}, fmt.Errorf("failed to read wallet secret: %w", err)
	}

	var secret interfaces.WalletSecret
	if err := json.Unmarshal(data, &secret); err != nil {
		return interfaces.WalletSecret{}, fmt.Errorf("failed to parse wallet secret: %w", err)
	}
	return secret, secret.Validate()
}

// protectReport is what protect and upgrade print: artifact metadata plus
// the stego key for Maximum-tier artifacts, so the user can hold the second
// recovery factor outside the stored artifact as well.
func protectReport(artifact *interfaces.SecuredArtifact) map[string]any {
	report := map[string]any{
		"address":   artifact.Address,
		"level":     artifact.Level.String(),
		"createdAt": artifact.CreatedAt,
	}
	if artifact.FallbackReason != "" {
		report["fallbackReason"] = artifact.FallbackReason
	}
	if artifact.Maximum != nil {
		report["stegoKey"] = artifact.Maximum.StegoKey
	}
	return report
}

func writeJSON(cCtx *cli.Context, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if path := cCtx.String(flags.OutputFlag.Name); path != "" {
		return os.WriteFile(path, append(encoded, '\n'), 0o600)
	}
	fmt.Println(string(encoded))
	return nil
}
