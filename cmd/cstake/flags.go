// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/cstake/log"
	"github.com/vechain/cstake/relayer"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a YAML file providing defaults for the other flags",
	}
	networkFlag = cli.StringFlag{
		Name:  "network",
		Usage: "path to a custom genesis file (devnet if omitted)",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for ledger databases",
	}
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "keep ledger data in data-dir instead of memory",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "megabytes of RAM allocated to the ledger database",
		Value: 1024,
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiBacktraceLimitFlag = cli.Uint64Flag{
		Name:  "api-backtrace-limit",
		Value: 1000,
		Usage: "limit the distance between 'pos' and the head for the event subscription API",
	}
	apiLogsLimitFlag = cli.Uint64Flag{
		Name:  "api-logs-limit",
		Value: 1000,
		Usage: "limit the number of logs returned by /logs API",
	}
	apiRateLimitFlag = cli.Float64Flag{
		Name:  "api-rate-limit",
		Value: 0,
		Usage: "write requests per second allowed per client (disabled if set to 0)",
	}
	apiRateBurstFlag = cli.IntFlag{
		Name:  "api-rate-burst",
		Value: 20,
		Usage: "write requests a client may burst above api-rate-limit",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Value: 0,
		Usage: "all queries with duration (ms) above the threshold will be logged",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log all requests answered with a 5xx status",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	skipLogsFlag = cli.BoolFlag{
		Name:  "skip-logs",
		Usage: "skip the /logs API",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "",
		Usage: "admin service listening address (disabled if empty)",
	}
	kmsKeyFlag = cli.StringFlag{
		Name:  "kms-key",
		Usage: "file of hex encoded KMS signer keys, one per line (dev keys if omitted)",
	}
	kmsThresholdFlag = cli.IntFlag{
		Name:  "kms-threshold",
		Usage: "signatures required in a decryption proof (all keys if set to 0)",
	}
	relayerFlag = cli.BoolFlag{
		Name:  "relayer",
		Usage: "finalize requested withdrawals automatically",
	}
	relayerScheduleFlag = cli.StringFlag{
		Name:  "relayer-schedule",
		Value: relayer.DefaultSchedule,
		Usage: "cron spec of relayer sweeps",
	}
	relayerCallerFlag = cli.StringFlag{
		Name:  "relayer-caller",
		Usage: "address submitting settlements (genesis owner if omitted)",
	}
	ntpServerFlag = cli.StringFlag{
		Name:  "ntp-server",
		Value: "pool.ntp.org",
		Usage: "NTP server used to check the local clock (disabled if empty)",
	}

	// client flags
	nodeURLFlag = cli.StringFlag{
		Name:  "node",
		Value: "http://localhost:8669",
		Usage: "API URL of a running node",
	}
	callerFlag = cli.StringFlag{
		Name:  "caller",
		Usage: "address of the staker",
	}
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "hex encoded private key of the staker, used as caller and to sign decryption requests",
	}
	valueFlag = cli.StringFlag{
		Name:  "value",
		Usage: "amount to stake in wei (hex or decimal)",
	}
	durationFlag = cli.Uint64Flag{
		Name:  "duration",
		Usage: "lock duration in seconds",
	}
)
