// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/cstake/api/utils"
	"github.com/vechain/cstake/cstake"
	"github.com/vechain/cstake/runtime"
)

// Contracts lists the builtin contract addresses.
type Contracts struct {
	Staking cstake.Address `json:"staking"`
	Token   cstake.Address `json:"token"`
	ACL     cstake.Address `json:"acl"`
}

// KMS describes the decryption signers trusted by the ledger.
type KMS struct {
	Signers   []cstake.Address `json:"signers"`
	Threshold int              `json:"threshold"`
}

// Info is the static part of the node description.
type Info struct {
	Version string `json:"version"`
	Network string `json:"network"`
	KMS     *KMS   `json:"kms,omitempty"`
}

type InfoResponse struct {
	Info
	Contracts   Contracts `json:"contracts"`
	BlockNumber uint32    `json:"blockNumber"`
	BlockTime   uint64    `json:"blockTime"`
}

type Node struct {
	rt   *runtime.Runtime
	info Info
}

func New(rt *runtime.Runtime, info Info) *Node {
	return &Node{
		rt,
		info,
	}
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &InfoResponse{
		Info: n.info,
		Contracts: Contracts{
			Staking: cstake.StakingAddress,
			Token:   cstake.TokenAddress,
			ACL:     cstake.ACLAddress,
		},
		BlockNumber: n.rt.BlockNumber(),
		BlockTime:   n.rt.Now(),
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/info").
		Methods(http.MethodGet).
		Name("node_get_info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleNodeInfo))
}
