package entity

// OutputStandalone serves the frontend bundle from the gateway process.
const OutputStandalone = "standalone"

// FrontendSettings describes the effective build flags of the frontend served
// behind the gateway.
type FrontendSettings struct {
	StrictMode   bool     `json:"strict_mode"`
	Minify       bool     `json:"minify"`
	Output       string   `json:"output"`
	ImageDomains []string `json:"image_domains"`
}

// GatewayConfigDTO is returned by GET /config.
type GatewayConfigDTO struct {
	Environment   string           `json:"environment"`
	RewritePolicy string           `json:"rewrite_policy"`
	Backend       string           `json:"backend"`
	RewriteSource string           `json:"rewrite_source"`
	Frontend      FrontendSettings `json:"frontend"`
}

// Image is a fetched remote image.
type Image struct {
	ContentType string
	Body        []byte
}
