package model

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Singleflight keys. A forced reload never joins a first load that may have
// read the file before it changed.
const (
	loadKey   = "artifact"
	reloadKey = "artifact-reload"
)

// Loader memoizes the model for the lifetime of the process.
// Concurrent first requests share a single load; failures are not cached.
type Loader struct {
	modelPath    string
	featuresPath string
	logger       *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	model *Model
}

// NewLoader creates a loader for the artifact and optional feature-name file
func NewLoader(modelPath, featuresPath string, logger *zap.Logger) *Loader {
	return &Loader{
		modelPath:    modelPath,
		featuresPath: featuresPath,
		logger:       logger.Named("model"),
	}
}

// Cached returns the loaded model without triggering a load
func (l *Loader) Cached() *Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.model
}

// Get returns the memoized model, loading it on first use
func (l *Loader) Get(ctx context.Context) (*Model, error) {
	if m := l.Cached(); m != nil {
		return m, nil
	}
	return l.load(ctx, false)
}

// Reload reads the artifact again and swaps it in only if it loads cleanly
func (l *Loader) Reload(ctx context.Context) (*Model, error) {
	return l.load(ctx, true)
}

func (l *Loader) load(ctx context.Context, force bool) (*Model, error) {
	key := loadKey
	if force {
		key = reloadKey
	}
	ch := l.group.DoChan(key, func() (interface{}, error) {
		if !force {
			if m := l.Cached(); m != nil {
				return m, nil
			}
		}

		m, err := Load(l.modelPath, l.featuresPath)
		if err != nil {
			l.logger.Error("Failed to load model artifact",
				zap.String("path", l.modelPath),
				zap.Error(err))
			return nil, err
		}

		l.mu.Lock()
		l.model = m
		l.mu.Unlock()

		l.logger.Info("Model artifact loaded",
			zap.String("path", m.Path),
			zap.String("kind", m.Classifier.Kind()),
			zap.Strings("features", m.FeatureNames()),
			zap.String("fingerprint", m.Fingerprint))
		return m, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Model), nil
	}
}
