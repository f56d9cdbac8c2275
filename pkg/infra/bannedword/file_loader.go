package bannedword

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type fileFormat struct {
	Words []string `yaml:"words"`
}

type replacer interface {
	Replace(ctx context.Context, words []string, source string) error
}

// FileLoader seeds the store from a YAML file of the form `words: [...]`.
type FileLoader struct {
	logger   *logrus.Logger
	path     string
	store    replacer
	debounce time.Duration
}

func NewFileLoader(logger *logrus.Logger, path string, store replacer) *FileLoader {
	return &FileLoader{
		logger:   logger,
		path:     filepath.Clean(path),
		store:    store,
		debounce: 500 * time.Millisecond,
	}
}

func ReadFile(path string) ([]string, error) {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("read banned word file: %w", err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse banned word file: %w", err)
	}
	return Normalize(f.Words), nil
}

func (l *FileLoader) Load(ctx context.Context) (int, error) {
	words, err := ReadFile(l.path)
	if err != nil {
		return 0, err
	}
	if err := l.store.Replace(ctx, words, "file:"+filepath.Base(l.path)); err != nil {
		return 0, err
	}
	l.logger.WithFields(logrus.Fields{
		"path":  l.path,
		"count": len(words),
	}).Info("banned words loaded")
	return len(words), nil
}

// Watch reloads the file after writes settle. It blocks until ctx is done.
func (l *FileLoader) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// the file may be replaced on save, so watch its directory
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		return fmt.Errorf("failed to watch %q: %w", l.path, err)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != l.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(l.debounce, func() {
				if _, err := l.Load(ctx); err != nil {
					l.logger.WithError(err).Error("banned word hot-reload failed")
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.WithError(err).Warn("banned word file watcher error")
		}
	}
}
