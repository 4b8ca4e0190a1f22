package metrics

// Config selects and parameterizes the metric sinks.
type Config struct {
	// Mode is "nop", "prometheus", "influx" or "multi".
	Mode string `json:"mode"`

	// PromAddr is the listen address of the Prometheus exposition server,
	// e.g. ":9090". Empty disables the server.
	PromAddr string `json:"prom_addr"`

	InfluxURL    string `json:"influx_url"`
	InfluxToken  string `json:"influx_token"`
	InfluxOrg    string `json:"influx_org"`
	InfluxBucket string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "nop"
	}
}
