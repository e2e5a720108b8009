// internal/infra/dropbox/client.go
package dropbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultContentURL = "https://content.dropboxapi.com"
	defaultAuthURL    = "https://api.dropbox.com"
)

// Credentials holds the OAuth material for the Dropbox app.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ClientID     string
	ClientSecret string
}

// Client is a minimal Dropbox file client covering the backup round
// trip: download the database before a run, upload it after. It is an
// explicitly constructed handle; the access token lives inside it and
// is refreshed in place when a call comes back 401.
type Client struct {
	httpClient  *http.Client
	creds       Credentials
	accessToken string
	logger      *logrus.Logger

	contentURL string
	authURL    string
}

func NewClient(creds Credentials, logger *logrus.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		creds:       creds,
		accessToken: creds.AccessToken,
		logger:      logger,
		contentURL:  defaultContentURL,
		authURL:     defaultAuthURL,
	}
}

// Pull downloads remotePath into localPath, overwriting it.
func (c *Client) Pull(ctx context.Context, remotePath, localPath string) error {
	resp, err := c.withAuthRetry(ctx, func(token string) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.contentURL+"/2/files/download", nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Dropbox-API-Arg", apiArg(remotePath))
		return c.httpClient.Do(req)
	})
	if err != nil {
		return fmt.Errorf("dropbox download of %s: %w", remotePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dropbox download of %s: unexpected status %d: %s", remotePath, resp.StatusCode, readErrorBody(resp.Body))
	}

	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("dropbox download of %s: create %s: %w", remotePath, localPath, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("dropbox download of %s: write %s: %w", remotePath, localPath, err)
	}
	c.logger.WithFields(logrus.Fields{"remote": remotePath, "local": localPath}).Info("Dropbox file downloaded")
	return nil
}

// Push uploads localPath to remotePath in overwrite mode.
func (c *Client) Push(ctx context.Context, localPath, remotePath string) error {
	content, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("dropbox upload of %s: read %s: %w", remotePath, localPath, err)
	}

	resp, err := c.withAuthRetry(ctx, func(token string) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.contentURL+"/2/files/upload", strings.NewReader(string(content)))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/octet-stream")
		req.Header.Set("Dropbox-API-Arg", uploadArg(remotePath))
		return c.httpClient.Do(req)
	})
	if err != nil {
		return fmt.Errorf("dropbox upload of %s: %w", remotePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dropbox upload of %s: unexpected status %d: %s", remotePath, resp.StatusCode, readErrorBody(resp.Body))
	}
	c.logger.WithFields(logrus.Fields{"remote": remotePath, "local": localPath}).Info("Dropbox file uploaded")
	return nil
}

// withAuthRetry is the middleware around each remote call: run it with
// the current access token, and on 401 refresh the token once and run
// it again. Any other outcome passes through untouched.
func (c *Client) withAuthRetry(ctx context.Context, call func(token string) (*http.Response, error)) (*http.Response, error) {
	resp, err := call(c.accessToken)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	resp.Body.Close()

	c.logger.Info("Dropbox access token rejected; refreshing")
	token, err := c.refreshAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh access token: %w", err)
	}
	c.accessToken = token
	return call(c.accessToken)
}

func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {c.creds.RefreshToken},
		"client_id":     {c.creds.ClientID},
		"client_secret": {c.creds.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response carried no access_token")
	}
	c.logger.Info("Dropbox access token refreshed")
	return payload.AccessToken, nil
}

func apiArg(path string) string {
	arg, _ := json.Marshal(map[string]string{"path": path})
	return string(arg)
}

func uploadArg(path string) string {
	arg, _ := json.Marshal(map[string]any{
		"path": path,
		"mode": "overwrite",
	})
	return string(arg)
}

func readErrorBody(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(body))
}
