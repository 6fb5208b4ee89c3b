package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/jgivc/frqarchive/internal/common"
	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/jgivc/frqarchive/internal/loader"
	"github.com/redis/go-redis/v9"
)

const (
	KeyVersion1      = "v1"
	KeyVersion2      = "v2"
	KeyActiveVersion = "frq:av"   // STRING. Name of the version readers use.
	KeyDocuments     = "frq:docs" // HASH. frq:docs:ver document_name: json

	KeyEmpty     = ""
	KeySeparator = ":"

	dataURLPrefix = loader.DataPrefix + "/"
)

// redisRepository publishes documents under a standby version and then
// flips the active version, so readers switch to a new build atomically.
type redisRepository struct {
	cl  *redis.Client
	log *slog.Logger
}

func NewRedisRepository(cl *redis.Client, log *slog.Logger) *redisRepository {
	return &redisRepository{
		cl:  cl,
		log: log.With(slog.String("item", "RedisRepository")),
	}
}

func (r *redisRepository) Save(ctx context.Context, docs []entity.Document) error {
	verActive, verStandby, err := r.getVersions(ctx)
	if err != nil {
		r.log.Error("Cannot get standby data version", slog.Any("error", err))

		return fmt.Errorf("cannot get active version: %w", err)
	}
	r.log.Info("Save new data", slog.String("active_version", verActive), slog.String("standby_version", verStandby))

	key := getKey(KeyDocuments, verStandby)

	pipe := r.cl.TxPipeline()
	pipe.Del(ctx, key)
	for _, doc := range docs {
		pipe.HSet(ctx, key, doc.Name, doc.Data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		r.log.Error("Cannot save new data", slog.String("version", verStandby), slog.Any("error", err))

		return fmt.Errorf("cannot save new data: %w", err)
	}

	if err := r.cl.Set(ctx, KeyActiveVersion, verStandby, 0).Err(); err != nil {
		r.log.Error("Cannot switch to new version", slog.String("version", verStandby), slog.Any("error", err))

		return fmt.Errorf("cannot switch to new version: %w", err)
	}

	r.log.Info("Switched version", slog.String("version", verStandby), slog.Int("documents", len(docs)))

	return nil
}

// Get returns a document of the active version.
func (r *redisRepository) Get(ctx context.Context, name string) ([]byte, error) {
	ver, err := r.cl.Get(ctx, KeyActiveVersion).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}

		return nil, fmt.Errorf("cannot get active version: %w", err)
	}

	data, err := r.cl.HGet(ctx, getKey(KeyDocuments, ver), name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}

		return nil, fmt.Errorf("cannot get document %s: %w", name, err)
	}

	return data, nil
}

// Fetch serves /data/<name> URLs from the active version, so a published
// build can back the index loader directly.
func (r *redisRepository) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	name, err := DocumentName(rawURL)
	if err != nil {
		return nil, &loader.StatusError{URL: rawURL, Status: http.StatusBadRequest}
	}

	data, err := r.Get(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, &loader.StatusError{URL: rawURL, Status: http.StatusNotFound}
		}

		return nil, err
	}

	return data, nil
}

// DocumentName maps a "/data/<name>" URL to the unescaped document name.
func DocumentName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	name, ok := strings.CutPrefix(u.Path, dataURLPrefix)
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", fmt.Errorf("not a data document url: %s", rawURL)
	}

	return name, nil
}

/*
getVersions return active and standby versions
*/
func (r *redisRepository) getVersions(ctx context.Context) (string, string, error) {
	ver, err := r.cl.Get(ctx, KeyActiveVersion).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return KeyEmpty, KeyEmpty, fmt.Errorf("cannot get active version: %w", err)
	}

	switch ver {
	case KeyVersion1:
		return KeyVersion1, KeyVersion2, nil
	case KeyVersion2:
		return KeyVersion2, KeyVersion1, nil
	}

	r.log.Info("Active version key is not found, the first build goes to", slog.String("version", KeyVersion1))

	return KeyEmpty, KeyVersion1, nil
}

func getKey(keys ...string) string {
	return strings.Join(keys, KeySeparator)
}
