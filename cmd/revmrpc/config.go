package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"reflect"
	"strings"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"

	"github.com/clydemeng/revm-rpc/internal/ethapi"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// NodeConfig holds the HTTP endpoint settings.
type NodeConfig struct {
	HTTPHost string
	HTTPPort int
	HTTPCors []string `toml:",omitempty"`
}

// SignerConfig selects and configures the key backend. A non-empty
// KeyStoreDir selects the keystore; otherwise DevKeys (hex) are used, falling
// back to the well-known development key.
type SignerConfig struct {
	DevKeys      []string `toml:",omitempty"`
	KeyStoreDir  string   `toml:",omitempty"`
	PasswordFile string   `toml:",omitempty"`
	LightKDF     bool

	// DevBalance is credited to every signer account in the dev state.
	DevBalance *big.Int
}

type revmrpcConfig struct {
	Node   NodeConfig
	Eth    ethapi.Config
	Signer SignerConfig
}

func defaultConfig() revmrpcConfig {
	return revmrpcConfig{
		Node: NodeConfig{
			HTTPHost: "localhost",
			HTTPPort: 8545,
		},
		Eth: ethapi.Config{
			ChainID:   ethapi.Defaults.ChainID,
			RPCGasCap: ethapi.Defaults.RPCGasCap,
			GasPrice:  new(big.Int).Set(ethapi.Defaults.GasPrice),
		},
		Signer: SignerConfig{
			DevBalance: new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(params.Ether)),
		},
	}
}

func loadConfig(file string, cfg *revmrpcConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig loads the config file, if any, and applies command line flags
// on top of it.
func makeConfig(ctx *cli.Context) (revmrpcConfig, error) {
	cfg := defaultConfig()
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if ctx.IsSet(httpAddrFlag.Name) {
		cfg.Node.HTTPHost = ctx.String(httpAddrFlag.Name)
	}
	if ctx.IsSet(httpPortFlag.Name) {
		cfg.Node.HTTPPort = ctx.Int(httpPortFlag.Name)
	}
	if ctx.IsSet(httpCorsFlag.Name) {
		cfg.Node.HTTPCors = splitAndTrim(ctx.String(httpCorsFlag.Name))
	}
	if ctx.IsSet(chainIDFlag.Name) {
		cfg.Eth.ChainID = ctx.Uint64(chainIDFlag.Name)
	}
	if ctx.IsSet(rpcGasCapFlag.Name) {
		cfg.Eth.RPCGasCap = ctx.Uint64(rpcGasCapFlag.Name)
	}
	if ctx.IsSet(keystoreFlag.Name) {
		cfg.Signer.KeyStoreDir = ctx.String(keystoreFlag.Name)
	}
	if ctx.IsSet(passwordFlag.Name) {
		cfg.Signer.PasswordFile = ctx.String(passwordFlag.Name)
	}
	if ctx.IsSet(lightKDFFlag.Name) {
		cfg.Signer.LightKDF = ctx.Bool(lightKDFFlag.Name)
	}
	if ctx.IsSet(devBalanceFlag.Name) {
		bal, ok := new(big.Int).SetString(ctx.String(devBalanceFlag.Name), 0)
		if !ok || bal.Sign() < 0 {
			return cfg, fmt.Errorf("invalid dev balance %q", ctx.String(devBalanceFlag.Name))
		}
		cfg.Signer.DevBalance = bal
	}
	return cfg, nil
}

// devKeys decodes the configured hex development keys.
func (c *SignerConfig) devKeys() ([][]byte, error) {
	keys := make([][]byte, 0, len(c.DevKeys))
	for i, k := range c.DevKeys {
		raw := common.FromHex(strings.TrimSpace(k))
		if len(raw) != 32 {
			return nil, fmt.Errorf("dev key %d: want 32 bytes, have %d", i, len(raw))
		}
		keys = append(keys, raw)
	}
	return keys, nil
}

// password reads the first line of the password file.
func (c *SignerConfig) password() (string, error) {
	if c.PasswordFile == "" {
		return "", nil
	}
	text, err := os.ReadFile(c.PasswordFile)
	if err != nil {
		return "", fmt.Errorf("failed to read password file: %w", err)
	}
	line, _, _ := strings.Cut(string(text), "\n")
	return strings.TrimRight(line, "\r"), nil
}

// splitAndTrim splits input separated by a comma
// and trims excessive white space from the substrings.
func splitAndTrim(input string) (ret []string) {
	l := strings.Split(input, ",")
	for _, r := range l {
		if r = strings.TrimSpace(r); r != "" {
			ret = append(ret, r)
		}
	}
	return ret
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}
	return writeConfig(dump, cfg)
}

// writeConfig writes cfg as TOML with the dev keys stripped. When keys were
// stripped, the header warns that the dumped file signs with the built-in
// development key until they are restored.
func writeConfig(w io.Writer, cfg revmrpcConfig) error {
	header := "# Note: this config doesn't contain the dev keys or keystore password.\n"
	if len(cfg.Signer.DevKeys) > 0 && cfg.Signer.KeyStoreDir == "" {
		header += fmt.Sprintf("# Warning: %d dev key(s) were omitted. Without [Signer] DevKeys this config\n", len(cfg.Signer.DevKeys))
		header += "# signs with the built-in development key 0x1111...11.\n"
	}
	cfg.Signer.DevKeys = nil
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, header+"\n"); err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
