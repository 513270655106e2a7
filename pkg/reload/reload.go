// Package reload re-installs a context's certificate and key when the
// backing files change on disk, so long-running processes pick up rotated
// material without restarting.
package reload

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/polisai/tlscred/pkg/credential"
)

// debounceDelay absorbs the multiple rapid writes a typical certificate
// rotation produces.
const debounceDelay = 100 * time.Millisecond

// Watcher keeps one context's file-based key pair current.
type Watcher struct {
	ctx      *credential.Context
	certFile string
	keyFile  string
	format   credential.FileFormat

	fsw        *fsnotify.Watcher
	reloadChan chan struct{}
	logger     *slog.Logger
	onReload   func(error)

	mu     sync.Mutex
	closed bool
}

// Option adjusts watcher behavior.
type Option func(*Watcher)

// WithLogger installs a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// WithReloadHook registers a callback invoked after every reload attempt
// with its outcome.
func WithReloadHook(hook func(error)) Option {
	return func(w *Watcher) { w.onReload = hook }
}

// Watch installs the key pair into ctx and begins watching both files. The
// context must already hold any passphrase the key needs.
func Watch(ctx *credential.Context, certFile, keyFile string, format credential.FileFormat, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		ctx:        ctx,
		certFile:   certFile,
		keyFile:    keyFile,
		format:     format,
		reloadChan: make(chan struct{}, 1),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "reload")

	if err := w.install(); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	for _, f := range []string{certFile, keyFile} {
		if err := fsw.Add(f); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %q: %w", f, err)
		}
	}
	w.fsw = fsw
	go w.run()

	w.logger.Info("watching credential files", "cert_file", certFile, "key_file", keyFile)
	return w, nil
}

// Reload re-installs the key pair immediately.
func (w *Watcher) Reload() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("watcher is closed")
	}
	return w.install()
}

func (w *Watcher) install() error {
	if err := w.ctx.UseCertificateFile(w.certFile, w.format); err != nil {
		return err
	}
	return w.ctx.UsePrivateKeyFile(w.keyFile, w.format)
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Info("credential file changed", "file", event.Name, "op", event.Op.String())
			select {
			case w.reloadChan <- struct{}{}:
				go w.debouncedReload()
			default:
				// reload already pending
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("credential file watcher error", "error", err)
		}
	}
}

func (w *Watcher) debouncedReload() {
	time.Sleep(debounceDelay)
	<-w.reloadChan

	err := w.Reload()
	if err != nil {
		w.logger.Error("credential reload failed", "error", err)
	} else {
		w.logger.Info("credential reloaded", "cert_file", w.certFile, "key_file", w.keyFile)
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}

// Close stops watching. The context keeps its last installed material.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.fsw.Close()
}
