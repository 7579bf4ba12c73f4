// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHostCollector(t *testing.T) {
	c := NewHostCollector()
	assert.Greater(t, testutil.CollectAndCount(c), 0)
}

func TestNoOp(t *testing.T) {
	withProvider(t, nopProvider{})
	assert.True(t, NoOp())

	metrics = newPromProvider(prometheus.NewRegistry())
	assert.False(t, NoOp())
}
