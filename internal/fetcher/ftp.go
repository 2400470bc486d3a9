package fetcher

import (
	"context"
	"io"
	"net"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FTPOptions configures the FTP mirror.
type FTPOptions struct {
	Timeout time.Duration
}

// FTPMirror pulls the remote POS file share down to the local source
// directory before an ETL run. Files are compared by size; unchanged files
// are not re-downloaded.
type FTPMirror struct {
	opts FTPOptions
}

// NewFTPMirror creates a new FTPMirror with the given options.
func NewFTPMirror(opts FTPOptions) *FTPMirror {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	return &FTPMirror{opts: opts}
}

// parseFTPURL extracts host (with port), root path, and credentials from an
// FTP URL. Missing credentials fall back to anonymous.
func parseFTPURL(rawURL string) (host, root, user, pass string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", "", "", eris.Wrap(err, "ftp: parse url")
	}
	if u.Scheme != "ftp" {
		return "", "", "", "", eris.Errorf("ftp: expected ftp scheme, got %q", u.Scheme)
	}

	host = u.Host
	if _, _, splitErr := net.SplitHostPort(host); splitErr != nil {
		host = net.JoinHostPort(host, "21")
	}

	root = u.Path
	if root == "" {
		root = "/"
	}

	user = "anonymous"
	pass = "anonymous@"
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}

	return host, root, user, pass, nil
}

// Mirror walks the remote tree under rawURL and downloads new or changed
// files into localDir, preserving the directory layout. Returns the number
// of files downloaded.
func (f *FTPMirror) Mirror(ctx context.Context, rawURL, localDir string) (int, error) {
	host, root, user, pass, err := parseFTPURL(rawURL)
	if err != nil {
		return 0, err
	}

	log := zap.L().With(zap.String("component", "fetcher.ftp"), zap.String("host", host))
	log.Debug("connecting", zap.String("root", root))

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(f.opts.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return 0, eris.Wrap(err, "ftp: dial")
	}
	defer conn.Quit()

	if err := conn.Login(user, pass); err != nil {
		return 0, eris.Wrap(err, "ftp: login")
	}

	return f.mirrorDir(ctx, conn, log, root, localDir)
}

func (f *FTPMirror) mirrorDir(ctx context.Context, conn *ftp.ServerConn, log *zap.Logger, remoteDir, localDir string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, eris.Wrap(err, "ftp: context cancelled")
	}

	entries, err := conn.List(remoteDir)
	if err != nil {
		return 0, eris.Wrapf(err, "ftp: list %s", remoteDir)
	}

	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return 0, eris.Wrapf(err, "ftp: create dir %s", localDir)
	}

	var downloaded int
	for _, e := range entries {
		switch e.Type {
		case ftp.EntryTypeFolder:
			if e.Name == "." || e.Name == ".." {
				continue
			}
			n, err := f.mirrorDir(ctx, conn, log, path.Join(remoteDir, e.Name), filepath.Join(localDir, e.Name))
			if err != nil {
				return downloaded, err
			}
			downloaded += n
		case ftp.EntryTypeFile:
			localPath := filepath.Join(localDir, e.Name)
			if fi, err := os.Stat(localPath); err == nil && fi.Size() == int64(e.Size) {
				continue
			}
			if err := f.download(conn, path.Join(remoteDir, e.Name), localPath); err != nil {
				return downloaded, err
			}
			log.Info("downloaded", zap.String("file", localPath), zap.Uint64("bytes", e.Size))
			downloaded++
		}
	}

	return downloaded, nil
}

func (f *FTPMirror) download(conn *ftp.ServerConn, remotePath, localPath string) error {
	resp, err := conn.Retr(remotePath)
	if err != nil {
		return eris.Wrapf(err, "ftp: retrieve %s", remotePath)
	}
	defer resp.Close()

	file, err := os.Create(localPath)
	if err != nil {
		return eris.Wrapf(err, "ftp: create %s", localPath)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp); err != nil {
		return eris.Wrapf(err, "ftp: write %s", localPath)
	}
	return nil
}
