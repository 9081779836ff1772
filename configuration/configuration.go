package configuration

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	Dir               string `usage:"data directory"`
	Statics           string `usage:"statics directory, empty to serve the embedded ones"`
	Version           bool   `usage:"show version and exit"`
	ShowBanner        bool   `usage:"show big banner"`
	ShowConfig        bool   `usage:"print config"`
	EnableCompression bool   `usage:"gzip responses when the client accepts it"`
	EnableMetrics     bool   `usage:"expose prometheus metrics on /metrics"`
	HttpsEnabled      bool   `usage:"serve HTTPS"`
	HttpsSelfsigned   bool   `usage:"use a self-signed certificate for HTTPS"`
	ApiKey            string `usage:"API key required in X-Api-Key, empty disables authentication"`
	ApiSecret         string `usage:"API secret required in X-Api-Secret"`
}

func Default() *Configuration {
	return &Configuration{
		HttpAddr:          "127.0.0.1:8080",
		Dir:               "data",
		Statics:           "",
		Version:           false,
		ShowBanner:        true,
		ShowConfig:        false,
		EnableCompression: true,
		EnableMetrics:     true,
		HttpsEnabled:      false,
		HttpsSelfsigned:   false,
	}
}
