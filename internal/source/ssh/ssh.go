// Package ssh fetches log files from a remote collector host over SSH, for
// firewalls whose exports never leave the management network.
package ssh

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/crimson-sun/panlogs/internal/source"
)

const defaultPort = "22"

func init() {
	source.Register("ssh", func() source.Source {
		return &Source{}
	})
}

// Source streams a remote file's lines by running cat over an SSH session.
type Source struct{}

// Stream connects to Extra["host"] as Extra["user"] and reads cfg.Path.
// Authentication uses the private key at Extra["key_path"], falling back to
// Extra["password"].
func (s *Source) Stream(ctx context.Context, cfg source.Config) (<-chan source.Record, error) {
	host := cfg.Extra["host"]
	user := cfg.Extra["user"]
	if host == "" || user == "" {
		return nil, fmt.Errorf("ssh source: missing required config keys \"host\" and \"user\" in Extra")
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("ssh source: missing remote path")
	}
	port := cfg.Extra["port"]
	if port == "" {
		port = defaultPort
	}

	auth, err := authMethods(cfg)
	if err != nil {
		return nil, err
	}

	client, err := ssh.Dial("tcp", host+":"+port, &ssh.ClientConfig{
		User: user,
		Auth: auth,
		// Collector hosts live on the management network; host keys are not
		// pinned here.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("ssh source: dial %s: %w", host, err)
	}

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ssh source: session: %w", err)
	}

	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("ssh source: stdout: %w", err)
	}
	if err := session.Start(fmt.Sprintf("cat %q", cfg.Path)); err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("ssh source: start: %w", err)
	}

	ch := make(chan source.Record, 256)
	go func() {
		defer close(ch)
		defer client.Close()
		defer session.Close()

		sc := bufio.NewScanner(stdout)
		sc.Buffer(make([]byte, 64*1024), 1<<20)
		for sc.Scan() {
			rec := source.Record{Payload: sc.Text(), Collected: time.Now()}
			select {
			case <-ctx.Done():
				return
			case ch <- rec:
			}
		}
		session.Wait()
	}()
	return ch, nil
}

func authMethods(cfg source.Config) ([]ssh.AuthMethod, error) {
	if keyPath := cfg.Extra["key_path"]; keyPath != "" {
		key, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("ssh source: read key %s: %w", keyPath, err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("ssh source: parse key: %w", err)
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}
	if pw := cfg.Extra["password"]; pw != "" {
		return []ssh.AuthMethod{ssh.Password(pw)}, nil
	}
	return nil, fmt.Errorf("ssh source: no auth configured (set \"key_path\" or \"password\" in Extra)")
}
