package ioframe

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/melbahja/goph"
)

// Open resolves rawPath to a readable handle, used by the initial source
// and by `:include`. Two schemes are understood:
//
//   - a bare path or file:// URI: opened locally with os.Open.
//   - ssh://user@host[:port]/path: opened over SSH via an SFTP session
//     authenticated against the local SSH agent, per spec section 10's
//     domain-stack remote-include extension.
//
// The returned name is the canonical name to record on the InputSource
// (used for display and for include-cycle detection).
func Open(rawPath string) (r io.ReadCloser, name string, err error) {
	if !strings.HasPrefix(rawPath, "ssh://") {
		f, err := os.Open(rawPath)
		if err != nil {
			return nil, "", err
		}
		return f, rawPath, nil
	}
	return openSSH(rawPath)
}

func openSSH(rawPath string) (io.ReadCloser, string, error) {
	u, err := url.Parse(rawPath)
	if err != nil {
		return nil, "", fmt.Errorf("ioframe: invalid ssh source %q: %w", rawPath, err)
	}
	if u.User == nil || u.User.Username() == "" {
		return nil, "", fmt.Errorf("ioframe: ssh source %q must include a user (ssh://user@host/path)", rawPath)
	}
	user := u.User.Username()
	addr := u.Host
	if !strings.Contains(addr, ":") {
		addr += ":22"
	}
	path := u.Path

	auth, err := goph.UseAgent()
	if err != nil {
		return nil, "", fmt.Errorf("ioframe: ssh agent unavailable for %q: %w", rawPath, err)
	}

	client, err := goph.NewUnknown(user, addr, auth)
	if err != nil {
		return nil, "", fmt.Errorf("ioframe: ssh dial %q: %w", addr, err)
	}

	sftp, err := client.NewSftp()
	if err != nil {
		client.Close()
		return nil, "", fmt.Errorf("ioframe: sftp session to %q: %w", addr, err)
	}

	f, err := sftp.Open(path)
	if err != nil {
		sftp.Close()
		client.Close()
		return nil, "", fmt.Errorf("ioframe: sftp open %q: %w", rawPath, err)
	}

	return &sshFile{File: f, sftp: sftp, client: client}, rawPath, nil
}

// sshFile closes its sftp.File, sftp client, and SSH connection together,
// so the caller only has one Close to call.
type sshFile struct {
	File   io.ReadCloser
	sftp   sftpCloser
	client sshCloser
}

// sftpCloser and sshCloser narrow *sftp.Client and *goph.Client down to the
// one method this file needs, so this package doesn't have to import
// github.com/pkg/sftp directly just to name the type.
type sftpCloser interface{ Close() error }
type sshCloser interface{ Close() error }

func (f *sshFile) Read(p []byte) (int, error) { return f.File.Read(p) }

func (f *sshFile) Close() error {
	ferr := f.File.Close()
	serr := f.sftp.Close()
	cerr := f.client.Close()
	if ferr != nil {
		return ferr
	}
	if serr != nil {
		return serr
	}
	return cerr
}
