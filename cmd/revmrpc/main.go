// revmrpc serves the eth JSON-RPC namespace on top of an in-memory
// development state, executing calls with the engine selected at build time.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/clydemeng/revm-rpc/core"
	"github.com/clydemeng/revm-rpc/internal/ethapi"
	"github.com/clydemeng/revm-rpc/signer"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
	logFormatFlag = &cli.StringFlag{
		Name:  "log.format",
		Usage: "Log format to use (json|logfmt|terminal)",
		Value: "terminal",
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log.file",
		Usage: "Write logs to a file",
	}
	logMaxSizeFlag = &cli.IntFlag{
		Name:  "log.maxsize",
		Usage: "Maximum size in MBs of a single log file",
		Value: 100,
	}
	logMaxBackupsFlag = &cli.IntFlag{
		Name:  "log.maxbackups",
		Usage: "Maximum number of log files to retain",
		Value: 10,
	}
	logMaxAgeFlag = &cli.IntFlag{
		Name:  "log.maxage",
		Usage: "Maximum number of days to retain a log file",
		Value: 30,
	}
	logCompressFlag = &cli.BoolFlag{
		Name:  "log.compress",
		Usage: "Compress the log files",
	}
	httpAddrFlag = &cli.StringFlag{
		Name:  "http.addr",
		Usage: "HTTP-RPC server listening interface",
		Value: "localhost",
	}
	httpPortFlag = &cli.IntFlag{
		Name:  "http.port",
		Usage: "HTTP-RPC server listening port",
		Value: 8545,
	}
	httpCorsFlag = &cli.StringFlag{
		Name:  "http.corsdomain",
		Usage: "Comma separated list of domains from which to accept cross origin requests (browser enforced)",
	}
	chainIDFlag = &cli.Uint64Flag{
		Name:  "chainid",
		Usage: "Chain id used for replay-protected signatures (0 disables protection)",
		Value: ethapi.Defaults.ChainID,
	}
	rpcGasCapFlag = &cli.Uint64Flag{
		Name:  "rpc.gascap",
		Usage: "Sets a cap on gas that can be used in eth_call/estimateGas (0=infinite)",
		Value: ethapi.Defaults.RPCGasCap,
	}
	keystoreFlag = &cli.StringFlag{
		Name:  "keystore",
		Usage: "Directory of an encrypted keystore to sign with instead of the dev keys",
	}
	passwordFlag = &cli.StringFlag{
		Name:  "password",
		Usage: "Password file to use for unlocking keystore accounts",
	}
	lightKDFFlag = &cli.BoolFlag{
		Name:  "lightkdf",
		Usage: "Reduce key-derivation RAM & CPU usage at some expense of KDF strength",
	}
	devBalanceFlag = &cli.StringFlag{
		Name:  "dev.balance",
		Usage: "Wei credited to every signer account in the dev state",
	}
)

var appFlags = []cli.Flag{
	configFileFlag,
	verbosityFlag,
	logFormatFlag,
	logFileFlag,
	logMaxSizeFlag,
	logMaxBackupsFlag,
	logMaxAgeFlag,
	logCompressFlag,
	httpAddrFlag,
	httpPortFlag,
	httpCorsFlag,
	chainIDFlag,
	rpcGasCapFlag,
	keystoreFlag,
	passwordFlag,
	lightKDFFlag,
	devBalanceFlag,
}

func newApp() *cli.App {
	return &cli.App{
		Name:   "revmrpc",
		Usage:  "Ethereum JSON-RPC bridge for gas estimation, calls and signing",
		Flags:  appFlags,
		Before: setupLogging,
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:      "dumpconfig",
				Usage:     "Export configuration values in a TOML format",
				ArgsUsage: "<dumpfile (optional)>",
				Action:    dumpConfig,
			},
			{
				Name:   "accounts",
				Usage:  "List the accounts of the configured signer",
				Action: listAccounts,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// makeSigner builds the signer selected by the configuration.
func makeSigner(cfg *SignerConfig) (signer.EthSigner, error) {
	if cfg.KeyStoreDir != "" {
		password, err := cfg.password()
		if err != nil {
			return nil, err
		}
		return signer.OpenKeystoreSigner(cfg.KeyStoreDir, password, cfg.LightKDF)
	}
	keys, err := cfg.devKeys()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return signer.NewDevSigner(), nil
	}
	return signer.NewDevSignerFromKeys(keys...)
}

func listAccounts(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	s, err := makeSigner(&cfg.Signer)
	if err != nil {
		return err
	}
	backend := "dev"
	if cfg.Signer.KeyStoreDir != "" {
		backend = "keystore"
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Address", "Backend"})
	for i, addr := range s.Accounts() {
		table.Append([]string{strconv.Itoa(i), addr.Hex(), backend})
	}
	table.Render()
	return nil
}

func serve(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	s, err := makeSigner(&cfg.Signer)
	if err != nil {
		return err
	}
	alloc := make(types.GenesisAlloc)
	for _, addr := range s.Accounts() {
		alloc[addr] = types.Account{Balance: cfg.Signer.DevBalance}
	}
	statedb, err := core.NewDevState(alloc)
	if err != nil {
		return err
	}
	probe, err := core.NewProbe(core.DevChainConfig(cfg.Eth.ChainID), core.DevHeader(), statedb)
	if err != nil {
		return err
	}
	defer probe.Close()
	log.Info("Initialised execution engine", "engine", probe.Engine(), "chainid", cfg.Eth.ChainID, "accounts", len(alloc))

	srv := rpc.NewServer()
	defer srv.Stop()
	for _, api := range ethapi.APIs(ethapi.NewEthAPI(cfg.Eth, probe, s)) {
		if err := srv.RegisterName(api.Namespace, api.Service); err != nil {
			return err
		}
	}
	return listenAndServe(ctx.Context, &cfg.Node, newCorsHandler(srv, cfg.Node.HTTPCors))
}

func newCorsHandler(srv http.Handler, allowedOrigins []string) http.Handler {
	// disable CORS support if user has not specified a custom CORS configuration
	if len(allowedOrigins) == 0 {
		return srv
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodGet},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	})
	return c.Handler(srv)
}

// listenAndServe runs the HTTP endpoint until an interrupt arrives.
func listenAndServe(ctx context.Context, cfg *NodeConfig, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", net.JoinHostPort(cfg.HTTPHost, strconv.Itoa(cfg.HTTPPort)))
	if err != nil {
		return err
	}
	httpSrv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 30 * time.Second,
	}
	log.Info("HTTP server started", "endpoint", listener.Addr(), "cors", cfg.HTTPCors)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpSrv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
