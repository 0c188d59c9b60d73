package carrier

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kargopanel/backend/internal/domain/fulfillment"
)

// maxResponseSize is the maximum allowed response size from the carrier (4MB)
const maxResponseSize = 4 * 1024 * 1024

// Per-operation SOAP action headers; part of the external contract
const (
	actionCreateShipment = "http://tempuri.org/ICargoIntegrationService/SetOrder"
	actionTrackShipment  = "http://tempuri.org/ICargoIntegrationService/GetQueryDS"
	actionListReturns    = "http://tempuri.org/ICargoIntegrationService/GetReturnedShipments"
)

// wireDateFormat is the carrier's date format for range queries
const wireDateFormat = "20060102"

// Config holds the carrier endpoint configuration shared by all tenants
type Config struct {
	BaseURL string
	Timeout time.Duration
	// AllowLegacyTLS tolerates the carrier's outdated certificate chain and
	// pre-1.2 TLS. The flag weakens only this client's transport, never the
	// process default. Required for compatibility, not a security choice.
	AllowLegacyTLS bool
}

// Validate checks the configuration and applies defaults
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("carrier: base URL is required")
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}

// Client speaks the carrier's XML-over-HTTPS contract. It is stateless
// aside from the credentials it was constructed with.
type Client struct {
	config     *Config
	username   string
	password   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a carrier client bound to one set of credentials
func NewClient(config *Config, username, password string, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if config.AllowLegacyTLS {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // legacy carrier endpoint, see Config.AllowLegacyTLS
			MinVersion:         tls.VersionTLS10,
		}
	}

	return &Client{
		config:   config,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		logger: logger,
	}, nil
}

// CreateShipment registers a shipment with the carrier and returns the
// assigned tracking number. Carrier-reported errors and transport failures
// are both normalized into *fulfillment.CarrierError.
func (c *Client) CreateShipment(ctx context.Context, req fulfillment.ShipmentRequest) (string, error) {
	envelope := buildSetOrderEnvelope(c.username, c.password, req)

	body, err := c.post(ctx, actionCreateShipment, envelope)
	if err != nil {
		return "", err
	}

	resp := parseSetOrderResponse(body)
	if resp.IsError {
		msg := resp.ErrorMessage
		if msg == "" {
			msg = "carrier rejected the shipment"
		}
		return "", fulfillment.NewCarrierError("%s", msg)
	}
	if resp.TrackingNumber == "" {
		return "", fulfillment.NewCarrierError("carrier returned no tracking number")
	}

	c.logger.Debug("shipment created",
		zap.String("integration_code", req.IntegrationCode),
		zap.String("tracking_number", resp.TrackingNumber))

	return resp.TrackingNumber, nil
}

// TrackShipment queries the carrier by external order reference and
// returns the raw status blob.
func (c *Client) TrackShipment(ctx context.Context, integrationCode string) (string, error) {
	envelope := buildQueryEnvelope(c.username, c.password, integrationCode)

	body, err := c.post(ctx, actionTrackShipment, envelope)
	if err != nil {
		return "", err
	}
	if isErrorResponse(body) {
		return "", fulfillment.NewCarrierError("%s", errorMessageOf(body))
	}
	return string(body), nil
}

// ListReturns queries returned shipments within the date range and returns
// the raw blob.
func (c *Client) ListReturns(ctx context.Context, start, end time.Time) (string, error) {
	envelope := buildReturnsEnvelope(c.username, c.password,
		start.Format(wireDateFormat), end.Format(wireDateFormat))

	body, err := c.post(ctx, actionListReturns, envelope)
	if err != nil {
		return "", err
	}
	if isErrorResponse(body) {
		return "", fulfillment.NewCarrierError("%s", errorMessageOf(body))
	}
	return string(body), nil
}

// post issues one carrier call. Network failures (timeouts, DNS, TLS) are
// normalized into *fulfillment.CarrierError with a readable message.
func (c *Client) post(ctx context.Context, action string, envelope string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, strings.NewReader(envelope))
	if err != nil {
		return nil, fulfillment.NewCarrierError("carrier request could not be built: %v", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", action)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fulfillment.NewCarrierError("carrier unreachable: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fulfillment.NewCarrierError("carrier response could not be read: %v", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fulfillment.NewCarrierError("carrier returned HTTP %d", resp.StatusCode)
	}
	return body, nil
}

// Factory builds clients bound to tenant credentials, sharing one endpoint
// configuration.
type Factory struct {
	config *Config
	logger *zap.Logger
}

// NewFactory creates a Factory
func NewFactory(config *Config, logger *zap.Logger) (*Factory, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{config: config, logger: logger}, nil
}

// ForConnection returns a gateway using the connection's credentials
func (f *Factory) ForConnection(conn *fulfillment.CarrierConnection) fulfillment.CarrierGateway {
	client, err := NewClient(f.config, conn.Username, conn.Password, f.logger)
	if err != nil {
		// Config was validated at factory construction; only credential
		// plumbing can get here.
		panic(err)
	}
	return client
}

// Interface assertions
var (
	_ fulfillment.CarrierGateway        = (*Client)(nil)
	_ fulfillment.CarrierGatewayFactory = (*Factory)(nil)
)
