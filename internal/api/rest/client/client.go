// Package client implements a client for querying withdrawal status from the payout provider.
package client

import (
	"context"
	"fmt"

	"github.com/Mohammademon02/income-tracking-api/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Client defines attributes of a struct available to its methods.
type Client struct {
	client       *resty.Client
	serverConfig *config.ServerConfig
	log          *zerolog.Logger
}

// InitClient initializes a resty client.
func InitClient(serverConfig *config.ServerConfig, log *zerolog.Logger) *Client {
	payoutClient := resty.New()
	log.Info().Msg("payout provider client initialized")
	return &Client{client: payoutClient, serverConfig: serverConfig, log: log}
}

// GetPayoutStatus executes a status retrieval query for a given withdrawal identifier.
func (c *Client) GetPayoutStatus(ctx context.Context, withdrawalID string) (*resty.Response, error) {
	response, err := c.client.R().SetContext(ctx).SetPathParams(map[string]string{"withdrawalID": withdrawalID}).Get(c.serverConfig.PayoutAddress + "/api/payouts/{withdrawalID}")
	if err != nil {
		c.log.Err(err).Msg(fmt.Sprintf("payout status retrieval failed for withdrawal %s", withdrawalID))
		return nil, err
	}
	return response, nil
}
