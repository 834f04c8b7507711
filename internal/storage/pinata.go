package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Timi16/dehug-go/internal/common"
)

// DefaultPinataBaseURL is the Pinata pinning API root.
const DefaultPinataBaseURL = "https://api.pinata.cloud"

// PinataOptions configures a Pinata client. Either JWT or the legacy
// APIKey/SecretKey pair must be set; JWT wins when both are present.
type PinataOptions struct {
	BaseURL    string
	JWT        string
	APIKey     string
	SecretKey  string
	GatewayURL string
	HTTPClient *http.Client
}

// Pinata pins blobs and JSON documents through the Pinata pinning API and
// reports them as gateway URLs.
type Pinata struct {
	baseURL    string
	jwt        string
	apiKey     string
	secretKey  string
	gatewayURL string
	client     *http.Client
}

func NewPinata(opts PinataOptions) (*Pinata, error) {
	if opts.JWT == "" && (opts.APIKey == "" || opts.SecretKey == "") {
		return nil, fmt.Errorf("pinata credentials: %w", common.ErrorInvalidSource)
	}
	p := &Pinata{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		jwt:        opts.JWT,
		apiKey:     opts.APIKey,
		secretKey:  opts.SecretKey,
		gatewayURL: opts.GatewayURL,
		client:     opts.HTTPClient,
	}
	if p.baseURL == "" {
		p.baseURL = DefaultPinataBaseURL
	}
	if p.gatewayURL == "" {
		p.gatewayURL = DefaultGatewayURL
	}
	if p.client == nil {
		p.client = &http.Client{}
	}
	return p, nil
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// Store pins a named blob. The multipart body is streamed through a pipe,
// so arbitrarily large payloads never buffer in memory.
func (p *Pinata) Store(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/pinning/pinFileToIPFS", pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	p.authorize(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("pinata: pin %q: status %d: %s", name, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var pinned pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pinned); err != nil {
		return "", fmt.Errorf("pinata: decode pin response: %w", err)
	}
	if pinned.IpfsHash == "" {
		return "", fmt.Errorf("pinata: pin response without a hash: %w", common.ErrorInternal)
	}
	return p.gatewayURL + pinned.IpfsHash, nil
}

// StoreJSON serializes v and pins it as a JSON document.
func (p *Pinata) StoreJSON(ctx context.Context, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("pinata: marshal json document: %w", err)
	}
	return p.Store(ctx, MetadataObjectName, strings.NewReader(string(data)), int64(len(data)))
}

// RefOf normalizes a gateway URL into the bare content reference.
func (p *Pinata) RefOf(url string) string {
	return RefFromURL(url)
}

func (p *Pinata) authorize(req *http.Request) {
	if p.jwt != "" {
		req.Header.Set("Authorization", "Bearer "+p.jwt)
		return
	}
	req.Header.Set("pinata_api_key", p.apiKey)
	req.Header.Set("pinata_secret_api_key", p.secretKey)
}

// TokenExpiresAt reports the expiry claim of the configured JWT without
// verifying its signature; the API stays the authority on validity. A zero
// time with a nil error means the token never expires or no JWT is in use.
func (p *Pinata) TokenExpiresAt() (time.Time, error) {
	if p.jwt == "" {
		return time.Time{}, nil
	}
	token, _, err := jwt.NewParser().ParseUnverified(p.jwt, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("pinata: %w: %v", common.ErrInvalidToken, err)
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("pinata: %w: %v", common.ErrInvalidToken, err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// CheckToken fails with common.ErrTokenExpired when the configured JWT has
// already expired. Callers run it before a long upload starts.
func (p *Pinata) CheckToken(now time.Time) error {
	exp, err := p.TokenExpiresAt()
	if err != nil {
		return err
	}
	if !exp.IsZero() && exp.Before(now) {
		return fmt.Errorf("pinata credentials expired at %s: %w", exp.Format(time.RFC3339), common.ErrTokenExpired)
	}
	return nil
}
