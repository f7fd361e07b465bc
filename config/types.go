package config

// Config holds all signetd node configuration. It is loaded from
// <NodeHome>/config/signetd_config.json and validated with defaults applied.
type Config struct {
	// Log Config
	LogLevel   int    `json:"log_level"`   // e.g., 0 = debug, 1 = info, etc.
	LogFormat  string `json:"log_format"`  // "json" or "console"
	LogSampler bool   `json:"log_sampler"` // if true, samples logs (e.g., 1 in 5)

	// Node Config
	NodeHome     string `json:"node_home"`     // Node home directory (default: ~/.signetd)
	DatabaseFile string `json:"database_file"` // SQLite database filename (default: signet.db)

	// Protocol configuration
	NetworkID      string `json:"network_id"`      // Chain identifier of this escrow instance (default: solana:localnet)
	AdminAddress   string `json:"admin_address"`   // Base58 identity authorized for configure/withdraw
	InitialDeposit uint64 `json:"initial_deposit"` // Required deposit written at bootstrap

	// Signer network configuration
	RootPublicKey string `json:"root_public_key"` // Hex secp256k1 root key of the external signer (compressed or uncompressed)

	// Query Server Config
	QueryServerPort int `json:"query_server_port"` // Port for the HTTP query server (default: 8080)

	// Event retention
	EventCleanupIntervalSeconds int `json:"event_cleanup_interval_seconds"` // How often to prune old event rows (default: 3600)
	EventRetentionPeriodSeconds int `json:"event_retention_period_seconds"` // How long replayable events are kept (default: 86400)
}
