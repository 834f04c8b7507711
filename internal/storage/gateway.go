package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Timi16/dehug-go/internal/logging"
)

// ErrAllGatewaysFailed reports that no configured gateway served the
// requested content.
var ErrAllGatewaysFailed = errors.New("all IPFS gateways failed")

// DefaultGateways is the ordered fallback chain used for retrieval.
var DefaultGateways = []string{
	DefaultGatewayURL,
	"https://ipfs.io/ipfs/",
	"https://cloudflare-ipfs.com/ipfs/",
}

// DefaultGatewayTimeout bounds each individual gateway attempt.
const DefaultGatewayTimeout = 10 * time.Second

// Fetcher retrieves content by reference from an ordered list of public
// gateways, trying each in turn until one answers.
type Fetcher struct {
	gateways []string
	timeout  time.Duration
	client   *http.Client
	log      logging.Logger
}

func NewFetcher(gateways []string, timeout time.Duration, log logging.Logger) *Fetcher {
	if len(gateways) == 0 {
		gateways = DefaultGateways
	}
	if timeout <= 0 {
		timeout = DefaultGatewayTimeout
	}
	return &Fetcher{
		gateways: gateways,
		timeout:  timeout,
		client:   &http.Client{},
		log:      log,
	}
}

// Fetch retrieves the content behind a reference or gateway URL. Gateways
// are tried in order; a failure on one moves to the next, and only when
// every gateway has failed does the call error. The response is capped at
// maxBytes to keep a misbehaving gateway from flooding the caller; pass 0
// for no cap.
func (f *Fetcher) Fetch(ctx context.Context, refOrURL string, maxBytes int64) ([]byte, error) {
	ref := RefFromURL(refOrURL)

	for _, gw := range f.gateways {
		data, err := f.tryGateway(ctx, gw, ref, maxBytes)
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f.log.Warn(ctx, "gateway failed, trying next", "gateway", gw, "error", err.Error())
	}
	return nil, fmt.Errorf("%w: %s", ErrAllGatewaysFailed, ref)
}

// FetchJSON retrieves and decodes a JSON document into v.
func (f *Fetcher) FetchJSON(ctx context.Context, refOrURL string, maxBytes int64, decode func([]byte) error) error {
	data, err := f.Fetch(ctx, refOrURL, maxBytes)
	if err != nil {
		return err
	}
	return decode(data)
}

func (f *Fetcher) tryGateway(ctx context.Context, gateway, ref string, maxBytes int64) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, gateway+ref, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if maxBytes > 0 {
		body = io.LimitReader(resp.Body, maxBytes)
	}
	return io.ReadAll(body)
}
