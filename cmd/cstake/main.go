// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"math"
	"os"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/cstake/api"
	"github.com/vechain/cstake/api/admin"
	"github.com/vechain/cstake/api/node"
	"github.com/vechain/cstake/fhe/coprocessor"
	"github.com/vechain/cstake/kv"
	"github.com/vechain/cstake/log"
	"github.com/vechain/cstake/logdb"
	"github.com/vechain/cstake/lvldb"
	"github.com/vechain/cstake/metrics"
	"github.com/vechain/cstake/relayer"
	"github.com/vechain/cstake/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "cmd")
)

const (
	coprocessorBucket = kv.Bucket("cop.")
	relayerBucket     = kv.Bucket("relayer.")
)

var nodeFlags = []cli.Flag{
	configFlag,
	networkFlag,
	dataDirFlag,
	persistFlag,
	cacheFlag,
	apiAddrFlag,
	apiCorsFlag,
	apiBacktraceLimitFlag,
	apiLogsLimitFlag,
	apiRateLimitFlag,
	apiRateBurstFlag,
	apiSlowQueriesThresholdFlag,
	apiLog5xxErrorsFlag,
	enableAPILogsFlag,
	verbosityFlag,
	jsonLogsFlag,
	pprofFlag,
	skipLogsFlag,
	enableMetricsFlag,
	metricsAddrFlag,
	adminAddrFlag,
	kmsKeyFlag,
	kmsThresholdFlag,
	relayerFlag,
	relayerScheduleFlag,
	relayerCallerFlag,
	ntpServerFlag,
}

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	if version == "" {
		version = "0.1.0"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "cstake",
		Usage:     "Confidential staking ledger",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags:     nodeFlags,
		Action:    defaultAction,
		Commands:  clientCommands(),
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	if err := applyConfig(ctx, nodeFlags); err != nil {
		return err
	}
	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return fmt.Errorf("parse verbosity flag: %w", err)
	}
	logLevel := initLogger(lvl, ctx.Bool(jsonLogsFlag.Name))
	defer func() { logger.Info("exited") }()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	var (
		mainDB      *lvldb.LevelDB
		logDB       *logdb.LogDB
		instanceDir string
	)
	if ctx.Bool(persistFlag.Name) {
		if instanceDir, err = makeInstanceDir(ctx, gene); err != nil {
			return err
		}
		if mainDB, err = openMainDB(ctx, instanceDir); err != nil {
			return err
		}
		if logDB, err = openLogDB(instanceDir); err != nil {
			mainDB.Close()
			return err
		}
	} else {
		instanceDir = "Memory"
		mainDB = lvldb.NewMem()
		if logDB, err = logdb.NewMem(); err != nil {
			mainDB.Close()
			return err
		}
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	defer func() { logger.Info("closing log database..."); logDB.Close() }()

	kms, err := loadKMS(ctx)
	if err != nil {
		return err
	}
	cop, err := coprocessor.New(coprocessorBucket.NewStore(mainDB), kms)
	if err != nil {
		return err
	}
	rt, err := runtime.New(mainDB, cop, logDB)
	if err != nil {
		return err
	}
	defer rt.Close()

	if _, err := gene.Apply(rt); err != nil {
		return fmt.Errorf("apply genesis: %w", err)
	}

	go checkClockOffset(ctx.String(ntpServerFlag.Name))

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler, closeAPI, err := api.New(rt, logDB, cop, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		BacktraceLimit:  uint32(min(ctx.Uint64(apiBacktraceLimitFlag.Name), math.MaxUint32)),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		SkipLogs:        ctx.Bool(skipLogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
		SlowQueries:     time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:    ctx.Bool(apiLog5xxErrorsFlag.Name),
		RateLimit:       ctx.Float64(apiRateLimitFlag.Name),
		RateLimitBurst:  ctx.Int(apiRateBurstFlag.Name),
		EnableReqLogger: apiLogs,
		Info: node.Info{
			Version: fullVersion(),
			Network: gene.Name(),
			KMS:     &node.KMS{Signers: kms.Signers(), Threshold: kms.Threshold()},
		},
	})
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing API..."); closeAPI() }()

	exitCtx, cancel := handleExitSignal()
	defer cancel()

	var (
		group, groupCtx = errgroup.WithContext(exitCtx)
		servers         []func() error
	)

	apiListener, err := listen("API", ctx.String(apiAddrFlag.Name))
	if err != nil {
		return err
	}
	defer apiListener.Close()
	servers = append(servers, func() error {
		return serve(groupCtx, "API", apiListener, handler)
	})

	if ctx.Bool(enableMetricsFlag.Name) {
		listener, err := listen("metrics", ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer listener.Close()
		router := mux.NewRouter()
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		servers = append(servers, func() error {
			return serve(groupCtx, "metrics", listener, router)
		})
		logger.Info("metrics server listening", "url", "http://"+listener.Addr().String()+"/metrics")
	}

	if addr := ctx.String(adminAddrFlag.Name); addr != "" {
		listener, err := listen("admin", addr)
		if err != nil {
			return err
		}
		defer listener.Close()
		servers = append(servers, func() error {
			return serve(groupCtx, "admin", listener, admin.New(logLevel, apiLogs))
		})
		logger.Info("admin server listening", "url", "http://"+listener.Addr().String()+"/admin")
	}

	if ctx.Bool(relayerFlag.Name) {
		caller, err := parseAddressFlag(ctx, relayerCallerFlag, gene.Owner())
		if err != nil {
			return err
		}
		r, err := relayer.New(rt, logDB, cop, relayerBucket.NewStore(mainDB), caller)
		if err != nil {
			return err
		}
		schedule := ctx.String(relayerScheduleFlag.Name)
		if err := r.Start(schedule); err != nil {
			return err
		}
		servers = append(servers, func() error {
			<-groupCtx.Done()
			logger.Info("stopping relayer...")
			r.Stop()
			return nil
		})
		logger.Info("relayer enabled", "schedule", schedule, "caller", caller)
	}

	for _, s := range servers {
		group.Go(s)
	}

	printStartupMessage(gene, kms, instanceDir, "http://"+apiListener.Addr().String()+"/", rt.BlockNumber())
	if ctx.String(networkFlag.Name) == "" {
		printDevAccounts()
	}

	return group.Wait()
}
