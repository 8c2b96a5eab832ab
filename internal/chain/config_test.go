package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "9pMbqzoZJxSpaMtMJ9zaJqxY75K8esjL43WMTCnNCj1r"

func TestDefaultClusters(t *testing.T) {
	clusters := DefaultClusters()

	t.Run("returns all expected clusters", func(t *testing.T) {
		expected := []string{"mainnet-beta", "devnet", "testnet", "localnet"}

		assert.Len(t, clusters, len(expected))
		for _, name := range expected {
			_, ok := clusters[name]
			assert.True(t, ok, "missing cluster: %s", name)
		}
	})

	t.Run("mainnet config is correct", func(t *testing.T) {
		mainnet := clusters["mainnet-beta"]
		require.NotNil(t, mainnet)

		assert.Equal(t, "Mainnet Beta", mainnet.Name)
		assert.Empty(t, mainnet.Moniker)
		assert.Equal(t, "https://explorer.solana.com", mainnet.ExplorerURL)
		assert.False(t, mainnet.IsTestnet)
	})

	t.Run("devnet config is correct", func(t *testing.T) {
		devnet := clusters["devnet"]
		require.NotNil(t, devnet)

		assert.Equal(t, "Devnet", devnet.Name)
		assert.Equal(t, "devnet", devnet.Moniker)
		assert.True(t, devnet.IsTestnet)
	})

	t.Run("all clusters have RPC URLs", func(t *testing.T) {
		for name, config := range clusters {
			assert.NotEmpty(t, config.RPCURLs, "cluster %s has no RPC URLs", name)
		}
	})

	t.Run("all clusters have explorer URL", func(t *testing.T) {
		for name, config := range clusters {
			assert.NotEmpty(t, config.ExplorerURL, "cluster %s has no explorer URL", name)
		}
	})

	t.Run("only mainnet is not a testnet", func(t *testing.T) {
		for name, config := range clusters {
			assert.Equal(t, name != "mainnet-beta", config.IsTestnet, "cluster %s", name)
		}
	})
}

func TestLookup(t *testing.T) {
	t.Run("empty name means default", func(t *testing.T) {
		cfg, err := Lookup("")
		require.NoError(t, err)
		assert.Equal(t, "Mainnet Beta", cfg.Name)
	})

	t.Run("unknown cluster", func(t *testing.T) {
		_, err := Lookup("ethereum")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown cluster")
	})

	t.Run("names are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"devnet", "localnet", "mainnet-beta", "testnet"}, Names())
	})
}

func TestExplorerURLs(t *testing.T) {
	t.Run("mainnet has no cluster parameter", func(t *testing.T) {
		cfg, err := Lookup("mainnet-beta")
		require.NoError(t, err)
		assert.Equal(t, "https://explorer.solana.com/address/"+testAddress, cfg.AccountURL(testAddress))
	})

	t.Run("devnet adds cluster parameter", func(t *testing.T) {
		cfg, err := Lookup("devnet")
		require.NoError(t, err)
		assert.Equal(t, "https://explorer.solana.com/tx/abc?cluster=devnet", cfg.TxURL("abc"))
	})

	t.Run("localnet points explorer at local RPC", func(t *testing.T) {
		cfg, err := Lookup("localnet")
		require.NoError(t, err)
		assert.Equal(t,
			"https://explorer.solana.com/address/"+testAddress+"?cluster=custom&customUrl=http%3A%2F%2F127.0.0.1%3A8899",
			cfg.AccountURL(testAddress))
	})
}
