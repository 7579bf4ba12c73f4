// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStmtCache(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	sc := newStmtCache(db.db)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sc.Prepare("SELECT COUNT(*) FROM event")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, sc.Len())

	first, err := sc.Prepare("SELECT COUNT(*) FROM event")
	require.NoError(t, err)
	second, err := sc.Prepare("SELECT COUNT(*) FROM event")
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = sc.Prepare("SELECT nope FROM nowhere")
	assert.Error(t, err)
	assert.Equal(t, 1, sc.Len())

	require.NoError(t, sc.Close())
	assert.Equal(t, 0, sc.Len())
	_, err = sc.Prepare("SELECT COUNT(*) FROM event")
	assert.Error(t, err)
}
