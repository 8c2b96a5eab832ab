package chain

import (
	"fmt"
	"net/url"
	"sort"
)

// ClusterConfig holds configuration for a Solana cluster.
// Only rendered for the user; no RPC calls are made from this package.
type ClusterConfig struct {
	Name        string   `yaml:"name"`
	Moniker     string   `yaml:"moniker"` // explorer ?cluster= value, empty for mainnet
	RPCURLs     []string `yaml:"rpc_urls"`
	ExplorerURL string   `yaml:"explorer_url"`
	IsTestnet   bool     `yaml:"is_testnet"`
}

// DefaultCluster is used when no cluster is configured.
const DefaultCluster = "mainnet-beta"

// DefaultClusters returns the default cluster configurations
func DefaultClusters() map[string]*ClusterConfig {
	return map[string]*ClusterConfig{
		"mainnet-beta": {
			Name:        "Mainnet Beta",
			RPCURLs:     []string{"https://api.mainnet-beta.solana.com"},
			ExplorerURL: "https://explorer.solana.com",
			IsTestnet:   false,
		},
		"devnet": {
			Name:        "Devnet",
			Moniker:     "devnet",
			RPCURLs:     []string{"https://api.devnet.solana.com"},
			ExplorerURL: "https://explorer.solana.com",
			IsTestnet:   true,
		},
		"testnet": {
			Name:        "Testnet",
			Moniker:     "testnet",
			RPCURLs:     []string{"https://api.testnet.solana.com"},
			ExplorerURL: "https://explorer.solana.com",
			IsTestnet:   true,
		},
		"localnet": {
			Name:        "Localnet",
			Moniker:     "custom",
			RPCURLs:     []string{"http://127.0.0.1:8899"},
			ExplorerURL: "https://explorer.solana.com",
			IsTestnet:   true,
		},
	}
}

// Lookup returns the named default cluster.
func Lookup(name string) (*ClusterConfig, error) {
	if name == "" {
		name = DefaultCluster
	}
	cfg, ok := DefaultClusters()[name]
	if !ok {
		return nil, fmt.Errorf("unknown cluster: %s (known: %v)", name, Names())
	}
	return cfg, nil
}

// Names returns the default cluster names in sorted order.
func Names() []string {
	clusters := DefaultClusters()
	names := make([]string, 0, len(clusters))
	for name := range clusters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AccountURL links to an address on the cluster's explorer.
func (c *ClusterConfig) AccountURL(address string) string {
	return c.explorerURL("address", address)
}

// TxURL links to a transaction signature on the cluster's explorer.
func (c *ClusterConfig) TxURL(signature string) string {
	return c.explorerURL("tx", signature)
}

func (c *ClusterConfig) explorerURL(kind, id string) string {
	u := c.ExplorerURL + "/" + kind + "/" + url.PathEscape(id)
	if c.Moniker == "" {
		return u
	}
	q := url.Values{"cluster": {c.Moniker}}
	if c.Moniker == "custom" && len(c.RPCURLs) > 0 {
		q.Set("customUrl", c.RPCURLs[0])
	}
	return u + "?" + q.Encode()
}
