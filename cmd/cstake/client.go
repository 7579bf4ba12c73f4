// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/fhe/coprocessor"
	"github.com/vechain/cstake/stakeclient"
)

var accountFlag = cli.StringFlag{
	Name:  "account",
	Usage: "address of the position (caller if omitted)",
}

func clientCommands() []cli.Command {
	return []cli.Command{
		{
			Name:   "stake",
			Usage:  "deposit native value locked for a duration",
			Flags:  []cli.Flag{nodeURLFlag, callerFlag, keyFlag, valueFlag, durationFlag},
			Action: stakeAction,
		},
		{
			Name:   "request-withdraw",
			Usage:  "request the withdrawal of an unlocked position",
			Flags:  []cli.Flag{nodeURLFlag, callerFlag, keyFlag},
			Action: requestWithdrawAction,
		},
		{
			Name:   "finalize",
			Usage:  "settle a pending withdrawal with the public decryption of its amount",
			Flags:  []cli.Flag{nodeURLFlag, callerFlag, keyFlag, accountFlag},
			Action: finalizeAction,
		},
		{
			Name:   "status",
			Usage:  "show a staking position",
			Flags:  []cli.Flag{nodeURLFlag, callerFlag, keyFlag, accountFlag},
			Action: statusAction,
		},
		{
			Name:   "balance",
			Usage:  "show the reward balance, decrypted when the key is given",
			Flags:  []cli.Flag{nodeURLFlag, callerFlag, keyFlag},
			Action: balanceAction,
		},
	}
}

// identity resolves the caller from --key or --caller.
func identity(ctx *cli.Context) (cstake.Address, *ecdsa.PrivateKey, error) {
	if hex := ctx.String(keyFlag.Name); hex != "" {
		key, err := parseKey(hex)
		if err != nil {
			return cstake.Address{}, nil, errors.WithMessage(err, "flag key")
		}
		return cstake.Address(crypto.PubkeyToAddress(key.PublicKey)), key, nil
	}
	if ctx.String(callerFlag.Name) == "" {
		return cstake.Address{}, nil, fmt.Errorf("one of -%s or -%s is required", callerFlag.Name, keyFlag.Name)
	}
	caller, err := parseAddressFlag(ctx, callerFlag, cstake.Address{})
	return caller, nil, err
}

func newClient(ctx *cli.Context) *stakeclient.Client {
	return stakeclient.New(ctx.String(nodeURLFlag.Name))
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func stakeAction(ctx *cli.Context) error {
	caller, _, err := identity(ctx)
	if err != nil {
		return err
	}
	value, ok := math.ParseBig256(ctx.String(valueFlag.Name))
	if !ok || value.Sign() <= 0 {
		return fmt.Errorf("flag %v: positive integer required", valueFlag.Name)
	}
	receipt, err := newClient(ctx).Stake(caller, value, ctx.Uint64(durationFlag.Name))
	if err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, receipt)
}

func requestWithdrawAction(ctx *cli.Context) error {
	caller, _, err := identity(ctx)
	if err != nil {
		return err
	}
	receipt, err := newClient(ctx).RequestWithdraw(caller)
	if err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, receipt)
}

func finalizeAction(ctx *cli.Context) error {
	caller, _, err := identity(ctx)
	if err != nil {
		return err
	}
	account, err := parseAddressFlag(ctx, accountFlag, caller)
	if err != nil {
		return err
	}
	receipt, err := newClient(ctx).Settle(caller, account)
	if err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, receipt)
}

func statusAction(ctx *cli.Context) error {
	caller, _, err := identity(ctx)
	if err != nil {
		return err
	}
	account, err := parseAddressFlag(ctx, accountFlag, caller)
	if err != nil {
		return err
	}
	stake, err := newClient(ctx).Stakes(account)
	if err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, stake)
}

type balanceOutput struct {
	Account     cstake.Address       `json:"account"`
	Handle      cstake.Bytes32       `json:"handle"`
	ClearAmount *math.HexOrDecimal64 `json:"clearAmount,omitempty"`
}

func balanceAction(ctx *cli.Context) error {
	caller, key, err := identity(ctx)
	if err != nil {
		return err
	}
	client := newClient(ctx)
	balance, err := client.RewardBalance(caller)
	if err != nil {
		return err
	}
	out := &balanceOutput{Account: balance.Account, Handle: balance.Handle}
	if key != nil && !balance.Handle.IsZero() {
		sig, err := coprocessor.SignUserDecryption(balance.Handle, key)
		if err != nil {
			return err
		}
		res, err := client.UserDecrypt(balance.Handle, caller, sig)
		if err != nil {
			return err
		}
		out.ClearAmount = &res.ClearAmount
	}
	return printJSON(ctx.App.Writer, out)
}
