// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bufio"
	"context"
	"crypto/ecdsa"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe/coprocessor"
	"github.com/vechain/cstake/genesis"
	"github.com/vechain/cstake/log"
	"github.com/vechain/cstake/logdb"
	"github.com/vechain/cstake/lvldb"
)

// maxClockOffset is the local clock drift tolerated before lock expiry becomes unreliable.
const maxClockOffset = 10 * time.Second

func initLogger(lvl int, jsonLogs bool) *slog.LevelVar {
	logLevel := log.FromLegacyLevel(lvl)
	output := io.Writer(os.Stdout)

	var level slog.LevelVar
	level.Set(logLevel)

	var handler slog.Handler
	if jsonLogs {
		handler = log.NewJSONHandler(output, &level)
	} else {
		handler = log.NewTerminalHandler(output, &level)
	}
	log.SetDefault(log.New(handler))
	return &level
}

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("invalid value %d, must be <= %d", val, math.MaxInt)
	}
	return int(val), nil
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	network := ctx.String(networkFlag.Name)
	if network == "" {
		return genesis.NewDevnet(), nil
	}
	return genesis.LoadCustomNet(network)
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) (string, error) {
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return "", err
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%s-%x", gene.Name(), gene.Owner().Bytes()[16:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func openMainDB(ctx *cli.Context, dir string) (*lvldb.LevelDB, error) {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 500,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", path)
	}
	return db, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func openLogDB(dir string) (*logdb.LogDB, error) {
	path := filepath.Join(dir, "logs.db")
	db, err := logdb.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open log database [%v]", path)
	}
	return db, nil
}

// loadKMS reads the signer keys, or falls back to the dev keys.
func loadKMS(ctx *cli.Context) (*coprocessor.KMS, error) {
	keys := genesis.DevKMSKeys()
	threshold := genesis.DevKMSThreshold

	if path := ctx.String(kmsKeyFlag.Name); path != "" {
		var err error
		if keys, err = loadKeys(path); err != nil {
			return nil, err
		}
		threshold = len(keys)
	}
	if n := ctx.Int(kmsThresholdFlag.Name); n > 0 {
		threshold = n
	}
	return coprocessor.NewKMS(keys, threshold)
}

func loadKeys(path string) ([]*ecdsa.PrivateKey, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open key file")
	}
	defer file.Close()

	var keys []*ecdsa.PrivateKey
	scanner := bufio.NewScanner(file)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		key, err := parseKey(text)
		if err != nil {
			return nil, errors.Wrapf(err, "key file line %d", line)
		}
		keys = append(keys, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read key file")
	}
	if len(keys) == 0 {
		return nil, errors.New("key file holds no keys")
	}
	return keys, nil
}

func parseKey(hex string) (*ecdsa.PrivateKey, error) {
	return crypto.HexToECDSA(strings.TrimPrefix(strings.TrimPrefix(hex, "0x"), "0X"))
}

func parseAddressFlag(ctx *cli.Context, flag cli.StringFlag, fallback cstake.Address) (cstake.Address, error) {
	value := ctx.String(flag.Name)
	if value == "" {
		return fallback, nil
	}
	addr, err := cstake.ParseAddress(value)
	if err != nil {
		return cstake.Address{}, errors.WithMessagef(err, "flag %v", flag.Name)
	}
	return addr, nil
}

// checkClockOffset warns when the local clock drifts from the NTP server.
func checkClockOffset(server string) {
	if server == "" {
		return
	}
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if resp.ClockOffset > maxClockOffset || resp.ClockOffset < -maxClockOffset {
		logger.Warn("clock offset detected, lock expiry may be inaccurate", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

func listen(name, addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen %v addr [%v]", name, addr)
	}
	return listener, nil
}

// serve runs an http server on the listener until ctx is done.
func serve(ctx context.Context, name string, listener net.Listener, handler http.Handler) error {
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return errors.Wrapf(err, "%v server", name)
	case <-ctx.Done():
		logger.Info(fmt.Sprintf("stopping %v server...", name))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrapf(err, "shutdown %v server", name)
		}
		return nil
	}
}

func handleExitSignal() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		select {
		case sig := <-exitSignalCh:
			logger.Info("exit signal received", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(exitSignalCh)
	}()
	return ctx, cancel
}

// nodeName identifies this build, e.g. cstake/0.1.0-abc-dev/linux-amd64/go1.25.4.
func nodeName() string {
	return fmt.Sprintf("cstake/%v/%v-%v/%v", fullVersion(), runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func printStartupMessage(gene *genesis.Genesis, kms *coprocessor.KMS, dataDir, apiURL string, number uint32) {
	fmt.Printf(`Starting %v
    Network      [ %v ]
    Block        [ #%v ]
    Owner        [ %v ]
    KMS          [ %v of %v signers ]
    Data dir     [ %v ]
    API portal   [ %v ]
`,
		nodeName(),
		gene.Name(),
		number,
		gene.Owner(),
		kms.Threshold(), len(kms.Signers()),
		dataDir,
		apiURL)
}

func printDevAccounts() {
	info := "    Dev accounts\n"
	for _, a := range genesis.DevAccounts() {
		info += fmt.Sprintf("      %v %v\n", a.Address, cstake.BytesToBytes32(crypto.FromECDSA(a.PrivateKey)))
	}
	fmt.Print(info)
}

func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "cstake")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "cstake")
		}
		return filepath.Join(home, ".cstake")
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
