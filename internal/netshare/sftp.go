package netshare

import (
	"bufio"
	"context"
	"io"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/kevinburke/ssh_config"
	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"scanselector/internal/preset"
)

const defaultDialTimeout = 10 * time.Second

// SFTPSource fetches the presets file over SFTP. The host is resolved
// through ~/.ssh/config (HostName, User, Port, IdentityFile); auth is the
// identity file when configured, otherwise the SSH agent.
type SFTPSource struct {
	host string
	path string
}

func NewSFTPSource(host, path string) *SFTPSource {
	return &SFTPSource{host: host, path: path}
}

func (s *SFTPSource) Location() string { return "sftp://" + s.host + s.path }

func (s *SFTPSource) Fetch(ctx context.Context) ([]byte, error) {
	sshClient, err := s.dial(ctx)
	if err != nil {
		return nil, errors.Wrapf(preset.ErrSourceUnavailable, "dialing %s: %v", s.host, err)
	}
	defer sshClient.Close()

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		return nil, errors.Wrapf(preset.ErrSourceUnavailable, "sftp session on %s: %v", s.host, err)
	}
	defer sftpClient.Close()

	f, err := sftpClient.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(preset.ErrSourceUnavailable, "opening %s: %v", s.Location(), err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(preset.ErrSourceUnavailable, "reading %s: %v", s.Location(), err)
	}
	return data, nil
}

func (s *SFTPSource) dial(ctx context.Context) (*ssh.Client, error) {
	cfg, err := loadSSHConfig()
	if err != nil {
		return nil, err
	}

	hostname, err := cfg.Get(s.host, "HostName")
	if err != nil {
		return nil, err
	}
	if hostname == "" {
		hostname = s.host
	}

	username, err := cfg.Get(s.host, "User")
	if err != nil {
		return nil, err
	}
	if username == "" {
		currentUser, err := user.Current()
		if err != nil {
			return nil, errors.Wrap(err, "resolving current user")
		}
		username = currentUser.Username
	}

	port, err := cfg.Get(s.host, "Port")
	if err != nil {
		return nil, err
	}
	if port == "" {
		port = "22"
	}

	authMethods, cleanup, err := authMethods(cfg, s.host)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	timeout := defaultDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}

	sshConfig := &ssh.ClientConfig{
		User:            username,
		Auth:            authMethods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}

	return ssh.Dial("tcp", net.JoinHostPort(hostname, port), sshConfig)
}

func loadSSHConfig() (*ssh_config.Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "resolving home dir")
	}
	file, err := os.Open(filepath.Join(home, ".ssh", "config"))
	if err != nil {
		if os.IsNotExist(err) {
			// An absent config is fine; every lookup falls back to defaults.
			return &ssh_config.Config{}, nil
		}
		return nil, errors.Wrap(err, "opening SSH configuration")
	}
	defer file.Close()

	cfg, err := ssh_config.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, errors.Wrap(err, "parsing SSH configuration")
	}
	return cfg, nil
}

// authMethods builds the auth chain for host. The returned cleanup closes
// the agent connection and must be called once the SSH handshake finished.
func authMethods(cfg *ssh_config.Config, host string) ([]ssh.AuthMethod, func(), error) {
	noop := func() {}

	identity, _ := cfg.Get(host, "IdentityFile")
	if len(identity) > 1 && identity[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, noop, errors.Wrap(err, "resolving home dir")
		}
		identity = filepath.Join(home, identity[2:])
	}

	if identity != "" {
		key, err := os.ReadFile(identity)
		if err != nil {
			return nil, noop, errors.Wrap(err, "reading identity file")
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, noop, errors.Wrap(err, "parsing identity file")
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, noop, nil
	}

	sshAgentSock := os.Getenv("SSH_AUTH_SOCK")
	if sshAgentSock == "" {
		return nil, noop, errors.New("no IdentityFile configured and SSH_AUTH_SOCK is not set")
	}
	sshAgent, err := net.Dial("unix", sshAgentSock)
	if err != nil {
		return nil, noop, errors.Wrap(err, "connecting to SSH agent")
	}

	agentClient := agent.NewClient(sshAgent)
	signers, err := agentClient.Signers()
	if err != nil {
		sshAgent.Close()
		return nil, noop, errors.Wrap(err, "listing agent signers")
	}
	if len(signers) == 0 {
		sshAgent.Close()
		return nil, noop, errors.New("no signers found in SSH agent")
	}
	cleanup := func() { sshAgent.Close() }
	return []ssh.AuthMethod{ssh.PublicKeys(signers...)}, cleanup, nil
}
