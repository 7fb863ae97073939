package config

import (
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/artur/youtube-downloader/internal/downloader"
)

// Network holds HTTP client configuration
type Network struct {
	Timeout time.Duration
	Cookies string
}

// Flags returns CLI flags for network configuration
func (c *Network) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "http-timeout",
			Usage:       "Time to wait for response headers from YouTube",
			Value:       30 * time.Second,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("YTDL_HTTP_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:        "cookies",
			Usage:       "Netscape formatted cookies file used for age restricted videos",
			Destination: &c.Cookies,
			Sources:     cli.EnvVars("YTDL_COOKIES"),
		},
	}
}

// HTTPClient builds the client shared by metadata and media requests. The
// timeout bounds waiting for headers only, so long downloads are not cut.
func (c *Network) HTTPClient() (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = c.Timeout

	client := &http.Client{Transport: transport}

	if c.Cookies != "" {
		jar, err := downloader.LoadNetscapeCookies(c.Cookies)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load cookies")
		}
		client.Jar = jar
	}

	return client, nil
}
