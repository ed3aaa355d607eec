package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient is the resty client shared by everything that talks to peers.
// It embeds *resty.Client so all request builders are available directly.
//
// Example usage:
//
//	client := utils.NewHTTPClient("go-lan-sync")
//	resp, err := client.R().Get("http://192.168.1.5:9978/device")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent client identifying itself as
// userAgent. Redirects are not followed: a peer answers directly, and LAN
// hosts that redirect (router login pages, captive portals) are not peers.
func NewHTTPClient(userAgent string) *HTTPClient {
	client := resty.New().
		SetRedirectPolicy(resty.NoRedirectPolicy())
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}

	return &HTTPClient{Client: client}
}
