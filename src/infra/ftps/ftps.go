package ftps

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
)

var (
	ErrMissingHostname = errors.New("invalid ftps URL: missing hostname")
	ErrMissingFilePath = errors.New("invalid ftps URL: missing file path")

	// Credenciais nunca viajam na URL, só via flag/env/prompt.
	ErrCredentialsInURL = errors.New("credentials in URL are not supported, use -ftps-user and the FTPS_PASSWORD environment variable instead")
)

// Remote é uma URL ftps:// já validada.
type Remote struct {
	Host string
	Port string
	Path string
}

func (r Remote) Addr() string {
	return r.Host + ":" + r.Port
}

// IsFTPSURL diz se a fonte do import é remota.
func IsFTPSURL(source string) bool {
	return strings.HasPrefix(source, "ftps://")
}

// ParseURL valida uma URL ftps://host[:port]/path/to/file.
func ParseURL(raw string) (Remote, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return Remote{}, fmt.Errorf("invalid ftps URL: %w", err)
	}

	if parsed.User != nil {
		return Remote{}, ErrCredentialsInURL
	}

	if parsed.Hostname() == "" {
		return Remote{}, ErrMissingHostname
	}

	path := strings.TrimPrefix(parsed.Path, "/")
	if path == "" {
		return Remote{}, ErrMissingFilePath
	}

	port := parsed.Port()
	if port == "" {
		port = "21"
	}

	return Remote{
		Host: parsed.Hostname(),
		Port: port,
		Path: path,
	}, nil
}

// Client baixa arquivos de um servidor FTPS (explicit TLS).
// Implementa importer.Fetcher.
type Client struct {
	remote   Remote
	user     string
	password string
	timeout  time.Duration
}

func NewClient(remote Remote, user string, password string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		remote:   remote,
		user:     user,
		password: password,
		timeout:  timeout,
	}
}

func (c *Client) Fetch(ctx context.Context, remotePath string, dst io.Writer) error {
	conn, err := ftp.Dial(
		c.remote.Addr(),
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(c.timeout),
		ftp.DialWithExplicitTLS(&tls.Config{ServerName: c.remote.Host, MinVersion: tls.VersionTLS12}),
	)
	if err != nil {
		return fmt.Errorf("ftps.Client.Fetch - failed to connect to %s: %w", c.remote.Addr(), err)
	}
	defer conn.Quit()

	if err := conn.Login(c.user, c.password); err != nil {
		return fmt.Errorf("ftps.Client.Fetch - login failed for user %s: %w", c.user, err)
	}

	resp, err := conn.Retr(remotePath)
	if err != nil {
		return fmt.Errorf("ftps.Client.Fetch - failed to retrieve %s: %w", remotePath, err)
	}
	defer resp.Close()

	if _, err := io.Copy(dst, resp); err != nil {
		return fmt.Errorf("ftps.Client.Fetch - transfer of %s failed: %w", remotePath, err)
	}

	return nil
}
