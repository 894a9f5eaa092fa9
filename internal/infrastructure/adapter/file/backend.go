package file

import (
	"errors"
	"file-explorer/internal/domain/entity"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"github.com/spf13/afero"
	"github.com/spf13/afero/sftpfs"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Backend names accepted by NewBackend.
const (
	BackendOS     = "os"
	BackendMemory = "memory"
	BackendSFTP   = "sftp"
)

const sftpDialTimeout = 10 * time.Second

var (
	ErrUnknownBackend   = errors.New("unknown filesystem backend")
	ErrSFTPHostRequired = errors.New("sftp backend requires a host")
	ErrSFTPAuthRequired = errors.New("sftp backend requires a password or key file")
)

// Backend is a filesystem together with the directory a session starts in.
type Backend struct {
	Fs         afero.Fs
	WorkingDir string
	Name       string
	closer     func() error
}

// Close releases connections held by the backend. It is safe to call on any backend.
func (b *Backend) Close() error {
	if b == nil || b.closer == nil {
		return nil
	}
	return b.closer()
}

// SFTPConfig holds the connection settings of the sftp backend.
type SFTPConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	KeyFile    string
	KnownHosts string
}

// NewBackend builds the backend called name. workingDir overrides the starting
// directory when it is not empty; for remote and memory backends a relative
// workingDir is taken from the backend's own starting directory.
func NewBackend(name, workingDir string, sftpCfg SFTPConfig) (*Backend, error) {
	var (
		b   *Backend
		err error
	)
	switch name {
	case "", BackendOS:
		b, err = NewOsBackend(workingDir)
	case BackendMemory:
		b = NewMemoryBackend()
	case BackendSFTP:
		b, err = NewSFTPBackend(sftpCfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	if err != nil {
		return nil, err
	}
	if workingDir != "" && name != "" && name != BackendOS {
		if filepath.IsAbs(workingDir) {
			b.WorkingDir = filepath.Clean(workingDir)
		} else {
			b.WorkingDir = filepath.Join(b.WorkingDir, workingDir)
		}
	}
	// A fresh memory filesystem has nothing but the root.
	if b.Name == BackendMemory {
		if err := b.Fs.MkdirAll(b.WorkingDir, 0o755); err != nil {
			return nil, entity.WrapFSError("mkdir", b.WorkingDir, err)
		}
	}
	return b, nil
}

// NewOsBackend serves the host filesystem. An empty dir starts in the process
// working directory.
func NewOsBackend(dir string) (*Backend, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return &Backend{Fs: afero.NewOsFs(), WorkingDir: abs, Name: BackendOS}, nil
}

// NewMemoryBackend serves an empty in-memory filesystem rooted at "/".
func NewMemoryBackend() *Backend {
	return &Backend{Fs: afero.NewMemMapFs(), WorkingDir: string(filepath.Separator), Name: BackendMemory}
}

// NewSFTPBackend connects to a remote host over ssh and serves its filesystem.
// Host keys are verified against cfg.KnownHosts, or ~/.ssh/known_hosts when unset.
func NewSFTPBackend(cfg SFTPConfig) (*Backend, error) {
	if cfg.Host == "" {
		return nil, ErrSFTPHostRequired
	}

	auth, err := sftpAuth(cfg)
	if err != nil {
		return nil, err
	}
	knownHosts := cfg.KnownHosts
	if knownHosts == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate known hosts: %w", err)
		}
		knownHosts = filepath.Join(home, ".ssh", "known_hosts")
	}
	hostKeys, err := knownhosts.New(knownHosts)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts: %w", err)
	}

	port := cfg.Port
	if port == 0 {
		port = 22
	}
	conn, err := ssh.Dial("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(port)), &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         sftpDialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Host, err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to start sftp session: %w", err)
	}

	wd, err := client.Getwd()
	if err != nil {
		wd = "/"
	}

	return &Backend{
		Fs:         sftpfs.New(client),
		WorkingDir: wd,
		Name:       BackendSFTP,
		closer: func() error {
			return errors.Join(client.Close(), conn.Close())
		},
	}, nil
}

func sftpAuth(cfg SFTPConfig) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod
	if cfg.KeyFile != "" {
		pem, err := afero.ReadFile(afero.NewOsFs(), cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(pem)
		if err != nil {
			return nil, fmt.Errorf("failed to parse key file: %w", err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		methods = append(methods, ssh.Password(cfg.Password))
	}
	if len(methods) == 0 {
		return nil, ErrSFTPAuthRequired
	}
	return methods, nil
}
