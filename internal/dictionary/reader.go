// Package dictionary looks up word definitions on WordsAPI and keeps the responses in a file cache.
package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/at-ishikawa/vocabreview/internal/dictionary/rapidapi"
)

// ErrNotFound is returned when the dictionary has no definition of a word.
var ErrNotFound = errors.New("no definition found")

type Config struct {
	RapidAPIHost string
	RapidAPIKey  string
	// BaseURL defaults to https://RapidAPIHost.
	BaseURL string
	// MaxResults caps the senses joined into a definition; 0 keeps all of them.
	MaxResults int
}

type Reader struct {
	config    Config
	fileCache *FileCache
	client    *resty.Client
}

func NewReader(cacheDirectory string, config Config) *Reader {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://" + config.RapidAPIHost
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("x-rapidapi-host", config.RapidAPIHost).
		SetHeader("x-rapidapi-key", config.RapidAPIKey).
		SetRetryCount(2).
		AddRetryCondition(func(res *resty.Response, err error) bool {
			return err == nil && (res.StatusCode() == http.StatusTooManyRequests || res.StatusCode() >= http.StatusInternalServerError)
		})
	return &Reader{
		config:    config,
		fileCache: NewFileCache(cacheDirectory),
		client:    client,
	}
}

func (r *Reader) lookupAPI(ctx context.Context, word string) ([]byte, error) {
	res, err := r.client.R().
		SetContext(ctx).
		SetPathParam("word", word).
		Get("/words/{word}")
	if err != nil {
		return nil, fmt.Errorf("client.R.Get > %w", err)
	}
	switch res.StatusCode() {
	case http.StatusOK:
		return res.Body(), nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}
}

func (r *Reader) Lookup(ctx context.Context, word string) (rapidapi.Response, error) {
	var resp rapidapi.Response
	contents, err := r.fileCache.cache(word, func() ([]byte, error) {
		return r.lookupAPI(ctx, word)
	})
	if err != nil {
		return resp, fmt.Errorf("r.fileCache.cache > %w", err)
	}
	if err := json.Unmarshal(contents, &resp); err != nil {
		return resp, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return resp, nil
}

// Definition returns a one-line definition of a word.
func (r *Reader) Definition(ctx context.Context, word string) (string, error) {
	resp, err := r.Lookup(ctx, word)
	if err != nil {
		return "", err
	}
	definition := resp.Definition(r.config.MaxResults)
	if definition == "" {
		return "", ErrNotFound
	}
	return definition, nil
}
