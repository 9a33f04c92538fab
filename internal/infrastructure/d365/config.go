package d365

import "errors"

// Default OData collection paths, relative to the base URL.
const (
	DefaultCategoriesPath  = "data/RetailEcoResCategory"
	DefaultProductsPath    = "data/ReleasedProductsV2?$select=ItemNumber,ItemModelGroupId,SalesPrice,SearchName,ProductName"
	DefaultAssignmentsPath = "data/ProductCategoryAssignments"
	DefaultPricePath       = "data/GetCustomerPrice"
)

// Errors for client configuration
var (
	ErrConfigMissingBaseURL      = errors.New("d365: base URL is required")
	ErrConfigMissingTokenURL     = errors.New("d365: token URL is required")
	ErrConfigMissingClientID     = errors.New("d365: client ID is required")
	ErrConfigMissingClientSecret = errors.New("d365: client secret is required")
)

// Config holds connection settings for the Dynamics 365 OData endpoints.
type Config struct {
	// BaseURL is the root of the OData API; it doubles as the OAuth resource.
	BaseURL string
	// TokenURL is the OAuth token endpoint for the client-credentials grant.
	TokenURL string
	// ClientID and ClientSecret identify this application to the token endpoint.
	ClientID     string
	ClientSecret string

	// CustomerAccount is the account price queries are issued for.
	CustomerAccount string

	// Relative collection paths; defaulted by Validate when empty.
	CategoriesPath  string
	ProductsPath    string
	AssignmentsPath string
	PricePath       string

	// TimeoutSeconds is the HTTP request timeout.
	TimeoutSeconds int
}

// NewConfig creates a configuration with defaults.
func NewConfig(baseURL, tokenURL, clientID, clientSecret string) *Config {
	return &Config{
		BaseURL:         baseURL,
		TokenURL:        tokenURL,
		ClientID:        clientID,
		ClientSecret:    clientSecret,
		CategoriesPath:  DefaultCategoriesPath,
		ProductsPath:    DefaultProductsPath,
		AssignmentsPath: DefaultAssignmentsPath,
		PricePath:       DefaultPricePath,
		TimeoutSeconds:  30,
	}
}

// Validate validates the configuration and fills defaults.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.TokenURL == "" {
		return ErrConfigMissingTokenURL
	}
	if c.ClientID == "" {
		return ErrConfigMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrConfigMissingClientSecret
	}
	if c.CategoriesPath == "" {
		c.CategoriesPath = DefaultCategoriesPath
	}
	if c.ProductsPath == "" {
		c.ProductsPath = DefaultProductsPath
	}
	if c.AssignmentsPath == "" {
		c.AssignmentsPath = DefaultAssignmentsPath
	}
	if c.PricePath == "" {
		c.PricePath = DefaultPricePath
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
