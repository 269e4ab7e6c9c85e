package media

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	apiBaseURL      = "https://api.cloudinary.com/v1_1"
	deliveryBaseURL = "https://res.cloudinary.com"

	// defaultTransformFolder namespaces materialized transform copies so
	// they do not collide with the base asset key.
	defaultTransformFolder = "photoshare_tr"
)

// Config holds the media host credentials. Loaded once at startup and
// never mutated afterwards.
type Config struct {
	CloudName       string
	APIKey          string
	APISecret       string
	TransformFolder string
}

// Client is an HTTP client for the media host's upload API. The host
// is an opaque, potentially failing remote dependency; every method
// wraps transport and status failures so callers can surface them as
// external-service errors.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient builds a Client with a bounded request timeout.
func NewClient(cfg Config) *Client {
	if cfg.TransformFolder == "" {
		cfg.TransformFolder = defaultTransformFolder
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// UploadResult is the subset of the host's upload response we use.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// Upload sends raw image bytes to the host under the given public id.
// With overwrite set, a prior artifact under the same id is replaced
// rather than versioned.
func (c *Client) Upload(ctx context.Context, data []byte, publicID string, overwrite bool) (*UploadResult, error) {
	file := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
	params := map[string]string{
		"public_id": publicID,
		"overwrite": strconv.FormatBool(overwrite),
	}
	return c.upload(ctx, file, params)
}

// UploadRemote asks the host to fetch sourceURL itself and cache the
// result under the transform folder, keyed by the asset's public id.
// This is how a composed transformation URL is materialized.
func (c *Client) UploadRemote(ctx context.Context, sourceURL, publicID string) (*UploadResult, error) {
	params := map[string]string{
		"public_id": publicID,
		"folder":    c.cfg.TransformFolder,
		"overwrite": "true",
	}
	return c.upload(ctx, sourceURL, params)
}

// Destroy removes the artifact stored under publicID.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	params := map[string]string{"public_id": publicID}
	body, err := c.post(ctx, "destroy", "", params)
	if err != nil {
		return err
	}
	var resp struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("unmarshal destroy response: %w", err)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("media destroy %s: %s", publicID, resp.Result)
	}
	return nil
}

// BuildURL returns the delivery URL for publicID with the given
// operations applied on the fly, always in PNG form. With no
// operations it is the plain delivery URL of the artifact.
func (c *Client) BuildURL(publicID string, ops []PrimitiveOp) string {
	if encoded := EncodeOps(ops); encoded != "" {
		return fmt.Sprintf("%s/%s/image/upload/%s/%s.png", deliveryBaseURL, c.cfg.CloudName, encoded, publicID)
	}
	return fmt.Sprintf("%s/%s/image/upload/%s.png", deliveryBaseURL, c.cfg.CloudName, publicID)
}

// TransformKey returns the storage key of the materialized transform
// copy for a base public id.
func (c *Client) TransformKey(publicID string) string {
	return c.cfg.TransformFolder + "/" + publicID
}

func (c *Client) upload(ctx context.Context, file string, params map[string]string) (*UploadResult, error) {
	body, err := c.post(ctx, "upload", file, params)
	if err != nil {
		return nil, err
	}
	var res UploadResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("unmarshal upload response: %w", err)
	}
	return &res, nil
}

// post signs params and submits them to the named image action. The
// file value is excluded from the signature per the host's API rules.
func (c *Client) post(ctx context.Context, action, file string, params map[string]string) ([]byte, error) {
	params["timestamp"] = strconv.FormatInt(time.Now().Unix(), 10)

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", c.cfg.APIKey)
	form.Set("signature", c.sign(params))
	if file != "" {
		form.Set("file", file)
	}

	endpoint := fmt.Sprintf("%s/%s/image/%s", apiBaseURL, c.cfg.CloudName, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("media: %s request failed: %v", action, err)
		return nil, fmt.Errorf("media %s: %w", action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("media: %s error: status %d, body: %s", action, resp.StatusCode, string(body))
		return nil, fmt.Errorf("media %s: status %d", action, resp.StatusCode)
	}
	return body, nil
}

// sign produces the request signature: parameters sorted by name,
// joined as k=v with &, concatenated with the API secret and hashed
// with SHA-1.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.cfg.APISecret))
	return fmt.Sprintf("%x", sum)
}
